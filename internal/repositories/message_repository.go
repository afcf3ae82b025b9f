package repositories

import (
	"context"

	"github.com/ripplehq/ripple/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for direct and group chat storage
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetConversation(userA, userB uint, page, limit int) ([]models.Message, error)
	SearchMessages(ctx context.Context, userID uint, query string) ([]models.Message, error)

	CreateGroup(group *models.Group) error
	GetGroupByID(id uint) (*models.Group, error)
	AddGroupMember(member *models.GroupMember) error
	IsGroupMember(groupID, userID uint) (bool, error)
	GetGroupMemberIDs(groupID uint) ([]uint, error)
	GetGroupsForUser(userID uint) ([]models.Group, error)

	CreateGroupMessage(message *models.GroupMessage) error
	GetGroupMessages(groupID uint, page, limit int) ([]models.GroupMessage, error)
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage stores a direct message
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetConversation returns the direct messages between two users, newest first
func (r *PostgresMessageRepository) GetConversation(userA, userB uint, page, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
		userA, userB, userB, userA).
		Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// SearchMessages searches a user's messages by content. The request context
// cancels the query when the client aborts (search-as-you-type).
func (r *PostgresMessageRepository) SearchMessages(ctx context.Context, userID uint, query string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR recipient_id = ?) AND LOWER(content) LIKE LOWER(?)",
			userID, userID, "%"+query+"%").
		Order("created_at DESC").Limit(50).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateGroup stores a new chat group
func (r *PostgresMessageRepository) CreateGroup(group *models.Group) error {
	return r.db.Create(group).Error
}

// GetGroupByID retrieves a group by ID
func (r *PostgresMessageRepository) GetGroupByID(id uint) (*models.Group, error) {
	var group models.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// AddGroupMember adds a user to a group
func (r *PostgresMessageRepository) AddGroupMember(member *models.GroupMember) error {
	return r.db.Create(member).Error
}

// IsGroupMember checks whether a user belongs to a group
func (r *PostgresMessageRepository) IsGroupMember(groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetGroupMemberIDs returns the user IDs of all members of a group
func (r *PostgresMessageRepository) GetGroupMemberIDs(groupID uint) ([]uint, error) {
	var members []models.GroupMember
	if err := r.db.Where("group_id = ?", groupID).Find(&members).Error; err != nil {
		return nil, err
	}
	ids := make([]uint, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	return ids, nil
}

// GetGroupsForUser returns the groups a user belongs to
func (r *PostgresMessageRepository) GetGroupsForUser(userID uint) ([]models.Group, error) {
	var groups []models.Group
	sub := r.db.Model(&models.GroupMember{}).Select("group_id").Where("user_id = ?", userID)
	if err := r.db.Where("id IN (?)", sub).Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// CreateGroupMessage stores a group message
func (r *PostgresMessageRepository) CreateGroupMessage(message *models.GroupMessage) error {
	return r.db.Create(message).Error
}

// GetGroupMessages returns a group's messages, newest first
func (r *PostgresMessageRepository) GetGroupMessages(groupID uint, page, limit int) ([]models.GroupMessage, error) {
	var messages []models.GroupMessage
	err := r.db.Where("group_id = ?", groupID).
		Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
