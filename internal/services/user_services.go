package services

import (
	"context"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	Users UserStore
	log   logrus.FieldLogger
}

func NewUserService(users UserStore, log logrus.FieldLogger) *UserService {
	return &UserService{Users: users, log: log.WithField("component", "users")}
}

func (s *UserService) List(ctx context.Context, caller Caller) ([]model.User, error) {
	if err := policy.Check(policy.CanManageUsers(caller.Role), "list users", caller.Role); err != nil {
		return nil, err
	}
	return s.Users.List(ctx)
}

// ChangeRole assigns USER, SELLER or MANAGER to a non-ADMIN account.
func (s *UserService) ChangeRole(ctx context.Context, caller Caller, id string, target model.Role) (model.User, error) {
	if err := policy.Check(policy.CanAssignRole(caller.Role, target), "assign role "+target.String(), caller.Role); err != nil {
		return model.User{}, err
	}
	subject, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if err := policy.Check(policy.CanTouchUser(caller.Role, subject.Role), "change role of "+subject.Role.String()+" account", caller.Role); err != nil {
		return model.User{}, err
	}
	if err := s.Users.UpdateRole(ctx, id, target); err != nil {
		return model.User{}, err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "role": target, "by": caller.UserID}).Info("role changed")
	out := subject.User
	out.Role = target
	return out, nil
}

func (s *UserService) Delete(ctx context.Context, caller Caller, id string) error {
	if err := policy.Check(policy.CanManageUsers(caller.Role), "delete user", caller.Role); err != nil {
		return err
	}
	subject, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Check(policy.CanTouchUser(caller.Role, subject.Role), "delete "+subject.Role.String()+" account", caller.Role); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "by": caller.UserID}).Info("user deleted")
	return nil
}
