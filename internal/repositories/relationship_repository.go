package repositories

import (
	"github.com/ripplehq/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// RelationshipRepository defines the interface for relationship edge operations
type RelationshipRepository interface {
	CreatePending(requesterID, receiverID uint) (*models.RelationshipEdge, error)
	GetEdgeByID(id uint) (*models.RelationshipEdge, error)
	GetEdgeByPair(userA, userB uint) (*models.RelationshipEdge, error)
	GetPendingOutbound(requesterID, receiverID uint) (*models.RelationshipEdge, error)
	GetPendingInbound(receiverID uint) ([]models.RelationshipEdge, error)
	GetAcceptedPartnerIDs(userID uint) ([]uint, error)
	UpdateStatus(id uint, status string) error
	DeleteEdge(id uint) error
}

// PostgresRelationshipRepository implements RelationshipRepository for PostgreSQL
type PostgresRelationshipRepository struct {
	db *gorm.DB
}

// NewPostgresRelationshipRepository creates a new PostgresRelationshipRepository
func NewPostgresRelationshipRepository(db *gorm.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

// CreatePending inserts a fresh pending edge inside a transaction. Any
// existing reverse pending edge is removed first so a crossed pair of
// requests collapses into a single fresh request instead of auto-accepting.
// The unique index on pair_key makes the insert fail if another edge for the
// pair lands concurrently, so the pre-check race cannot produce duplicates.
func (r *PostgresRelationshipRepository) CreatePending(requesterID, receiverID uint) (*models.RelationshipEdge, error) {
	edge := &models.RelationshipEdge{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RelationshipPending,
		PairKey:     models.NormalizePair(requesterID, receiverID),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.RelationshipEdge
		err := tx.Where("pair_key = ?", edge.PairKey).First(&existing).Error
		if err == nil {
			if existing.Status == models.RelationshipPending && existing.RequesterID == receiverID {
				// Reverse pending request: replace it with the new forward edge.
				// Hard delete, or the unique pair_key index would still see the row.
				if err := tx.Unscoped().Delete(&models.RelationshipEdge{}, existing.ID).Error; err != nil {
					return err
				}
			} else {
				return ErrEdgeExists
			}
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(edge).Error
	})
	if err != nil {
		return nil, err
	}
	return edge, nil
}

// GetEdgeByID retrieves a relationship edge by ID
func (r *PostgresRelationshipRepository) GetEdgeByID(id uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := r.db.First(&edge, id).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetEdgeByPair retrieves the edge between two users regardless of direction
func (r *PostgresRelationshipRepository) GetEdgeByPair(userA, userB uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := r.db.Where("pair_key = ?", models.NormalizePair(userA, userB)).First(&edge).Error; err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetPendingOutbound retrieves the caller's pending request to a specific receiver
func (r *PostgresRelationshipRepository) GetPendingOutbound(requesterID, receiverID uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	err := r.db.Where("requester_id = ? AND receiver_id = ? AND status = ?",
		requesterID, receiverID, models.RelationshipPending).First(&edge).Error
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// GetPendingInbound retrieves all pending requests addressed to a user
func (r *PostgresRelationshipRepository) GetPendingInbound(receiverID uint) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverID, models.RelationshipPending).Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

// GetAcceptedPartnerIDs retrieves the IDs of all accepted friends of a user,
// whichever direction the original request ran.
func (r *PostgresRelationshipRepository) GetAcceptedPartnerIDs(userID uint) ([]uint, error) {
	var edges []models.RelationshipEdge
	err := r.db.Where("(requester_id = ? OR receiver_id = ?) AND status = ?",
		userID, userID, models.RelationshipAccepted).Find(&edges).Error
	if err != nil {
		return nil, err
	}

	partners := make([]uint, 0, len(edges))
	for _, e := range edges {
		if e.RequesterID == userID {
			partners = append(partners, e.ReceiverID)
		} else {
			partners = append(partners, e.RequesterID)
		}
	}
	return partners, nil
}

// UpdateStatus updates the status of a relationship edge
func (r *PostgresRelationshipRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.RelationshipEdge{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteEdge removes a relationship edge. Hard delete: a soft-deleted row
// would keep holding the unique pair_key and block any future request
// between the pair.
func (r *PostgresRelationshipRepository) DeleteEdge(id uint) error {
	return r.db.Unscoped().Delete(&models.RelationshipEdge{}, id).Error
}
