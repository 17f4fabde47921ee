package services

import (
	"errors"

	"socialapi/internal/models"
	"socialapi/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProfileUpdate holds the optional profile fields. A nil Bio leaves the bio
// unchanged; an empty PicturePath leaves the picture unchanged.
type ProfileUpdate struct {
	Bio         *string
	PicturePath string
}

// FollowResult is the reciprocal state after a follow or unfollow.
type FollowResult struct {
	Followers []string `json:"followers"` // the target's followers
	Following []string `json:"following"` // the actor's following
}

// ProfileService handles self profile edits and the follow graph.
type ProfileService struct {
	userRepo   repositories.UserRepository
	followRepo repositories.FollowRepository
	assets     AssetRemover
	events     EventPublisher
	log        logrus.FieldLogger
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, assets AssetRemover, events EventPublisher, log logrus.FieldLogger) *ProfileService {
	return &ProfileService{
		userRepo:   userRepo,
		followRepo: followRepo,
		assets:     assets,
		events:     events,
		log:        orDiscard(log),
	}
}

// GetProfile returns the profile of userID.
func (s *ProfileService) GetProfile(userID string) (*models.User, error) {
	return findUser(s.userRepo, userID)
}

// UpdateProfile edits the caller's own profile. Replacing a non-default
// picture deletes the previous asset on a best-effort basis.
func (s *ProfileService) UpdateProfile(userID string, upd ProfileUpdate) (*models.User, error) {
	user, err := findUser(s.userRepo, userID)
	if err != nil {
		// The freshly uploaded picture has no owner to attach to.
		removeAsset(s.assets, s.log, upd.PicturePath)
		return nil, err
	}

	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	oldPicture := ""
	if upd.PicturePath != "" {
		if user.ProfilePicture != "" && user.ProfilePicture != models.DefaultProfilePicture {
			oldPicture = user.ProfilePicture
		}
		user.ProfilePicture = upd.PicturePath
	}

	if err := s.userRepo.Update(user); err != nil {
		removeAsset(s.assets, s.log, upd.PicturePath)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound)
		}
		return nil, storageError("failed to update profile", err)
	}
	removeAsset(s.assets, s.log, oldPicture)

	s.log.WithField("user_id", userID).Info("profile updated")
	return user, nil
}

// Follow makes actorID follow targetID.
func (s *ProfileService) Follow(actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, newError(KindValidationFailed, MsgSelfFollow)
	}
	if _, err := findUser(s.userRepo, targetID); err != nil {
		return nil, err
	}
	if _, err := findUser(s.userRepo, actorID); err != nil {
		return nil, err
	}

	following, err := s.followRepo.IsFollowing(actorID, targetID)
	if err != nil {
		return nil, storageError("failed to check follow state", err)
	}
	if following {
		return nil, newError(KindAlreadyInState, MsgAlreadyFollowing)
	}

	if err := s.followRepo.Follow(actorID, targetID); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(KindAlreadyInState, MsgAlreadyFollowing)
		}
		return nil, storageError("failed to follow user", err)
	}

	publishEvent(s.events, s.log, EventUserFollowed, map[string]interface{}{
		"followerID":  actorID,
		"followingID": targetID,
	})
	return s.followResult(actorID, targetID)
}

// Unfollow removes the follow edge actorID -> targetID.
func (s *ProfileService) Unfollow(actorID, targetID string) (*FollowResult, error) {
	if _, err := findUser(s.userRepo, targetID); err != nil {
		return nil, err
	}
	if _, err := findUser(s.userRepo, actorID); err != nil {
		return nil, err
	}

	following, err := s.followRepo.IsFollowing(actorID, targetID)
	if err != nil {
		return nil, storageError("failed to check follow state", err)
	}
	if !following {
		return nil, newError(KindNotInState, MsgNotFollowing)
	}

	if err := s.followRepo.Unfollow(actorID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(KindNotInState, MsgNotFollowing)
		}
		return nil, storageError("failed to unfollow user", err)
	}

	publishEvent(s.events, s.log, EventUserUnfollowed, map[string]interface{}{
		"followerID":  actorID,
		"followingID": targetID,
	})
	return s.followResult(actorID, targetID)
}

func (s *ProfileService) followResult(actorID, targetID string) (*FollowResult, error) {
	target, err := findUser(s.userRepo, targetID)
	if err != nil {
		return nil, err
	}
	actor, err := findUser(s.userRepo, actorID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{Followers: target.Followers, Following: actor.Following}, nil
}
