// Package notify composes and fans out notifications for interactions.
// Fan-out runs off the request path: failures are logged and swallowed, and
// a failed insert never blocks or rolls back the interaction that caused it.
package notify

import (
	"fmt"
	"log"
	"sync"

	"github.com/ripplehq/ripple/backend/internal/models"
	"github.com/ripplehq/ripple/backend/internal/repositories"
)

// Service builds notification rows for likes, comments, shares and new posts
type Service struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	edges         repositories.RelationshipRepository
}

// NewService creates a notify Service
func NewService(
	notifications repositories.NotificationRepository,
	users repositories.UserRepository,
	edges repositories.RelationshipRepository,
) *Service {
	return &Service{notifications: notifications, users: users, edges: edges}
}

// PostInteraction notifies a post's author that someone liked, commented on
// or shared their post. The actor never notifies themselves: the guard
// compares identities, not display names, since two users can share a name.
func (s *Service) PostInteraction(kind string, actorID uint, post *models.Post) {
	if actorID == post.AuthorID {
		return
	}

	actorName, authorName := s.fetchNamePair(actorID, post.AuthorID)

	var message string
	switch kind {
	case models.NotificationLike:
		message = fmt.Sprintf("%s liked %s's post \"%s\"", actorName, authorName, post.Title())
	case models.NotificationComment:
		message = fmt.Sprintf("%s commented on %s's post \"%s\"", actorName, authorName, post.Title())
	case models.NotificationShare:
		message = fmt.Sprintf("%s shared %s's post \"%s\"", actorName, authorName, post.Title())
	default:
		log.Printf("unknown interaction kind %q for post %s", kind, post.ID.Hex())
		return
	}

	n := &models.Notification{
		Type:        kind,
		ActorID:     actorID,
		RecipientID: post.AuthorID,
		TargetID:    post.ID.Hex(),
		TargetType:  "post",
		Message:     message,
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		log.Printf("failed to create %s notification for post %s: %v", kind, post.ID.Hex(), err)
	}
}

// FriendPost tells every accepted friend of the poster about a new post,
// as a single batch insert. The poster is never a recipient.
func (s *Service) FriendPost(post *models.Post) {
	friendIDs, err := s.edges.GetAcceptedPartnerIDs(post.AuthorID)
	if err != nil {
		log.Printf("failed to resolve friends for post fan-out %s: %v", post.ID.Hex(), err)
		return
	}
	if len(friendIDs) == 0 {
		return
	}

	authorName := s.fetchName(post.AuthorID)
	message := fmt.Sprintf("%s published a new post \"%s\"", authorName, post.Title())

	rows := make([]models.Notification, 0, len(friendIDs))
	for _, fid := range friendIDs {
		if fid == post.AuthorID {
			continue
		}
		rows = append(rows, models.Notification{
			Type:        models.NotificationFriendPost,
			ActorID:     post.AuthorID,
			RecipientID: fid,
			TargetID:    post.ID.Hex(),
			TargetType:  "post",
			Message:     message,
		})
	}
	if err := s.notifications.CreateNotificationsBatch(rows); err != nil {
		log.Printf("failed to batch insert friend-post notifications for %s: %v", post.ID.Hex(), err)
	}
}

// FriendRequest notifies the receiver of a new or accepted friend request.
func (s *Service) FriendRequest(kind string, actorID, recipientID uint, edgeID uint) {
	if actorID == recipientID {
		return
	}

	actorName := s.fetchName(actorID)

	var message string
	switch kind {
	case models.NotificationFriendRequest:
		message = fmt.Sprintf("%s sent you a friend request", actorName)
	case models.NotificationFriendAccept:
		message = fmt.Sprintf("%s accepted your friend request", actorName)
	default:
		return
	}

	n := &models.Notification{
		Type:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		TargetID:    fmt.Sprintf("%d", edgeID),
		TargetType:  "relationship",
		Message:     message,
	}
	if err := s.notifications.CreateNotification(n); err != nil {
		log.Printf("failed to create %s notification: %v", kind, err)
	}
}

// fetchNamePair loads two display names concurrently and joins before returning.
func (s *Service) fetchNamePair(a, b uint) (string, string) {
	var nameA, nameB string
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		nameA = s.fetchName(a)
	}()
	go func() {
		defer wg.Done()
		nameB = s.fetchName(b)
	}()
	wg.Wait()
	return nameA, nameB
}

func (s *Service) fetchName(id uint) string {
	user, err := s.users.GetUserByID(id)
	if err != nil {
		log.Printf("failed to resolve user %d for notification: %v", id, err)
		return "Someone"
	}
	return user.Name
}
