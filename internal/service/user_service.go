package service

import (
	"errors"

	"Mod_Community/internal/pkg"
	"Mod_Community/internal/repository/mysql"
	"Mod_Community/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo  *mysql.UserRepository
	rUser *redis.UserRepository
}

func NewUserService() *UserService {
	return &UserService{
		repo:  &mysql.UserRepository{DB: mysql.DB},
		rUser: &redis.UserRepository{},
	}
}

func (s *UserService) Login(username, password string) (*pkg.Pair, error) {
	user, err := s.repo.FindByUsername(username)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, errors.New("invalid password")
	}
	// 将token写入redis
	token, err := pkg.GeneratePair(user.ID)
	if err != nil {
		return nil, err
	}
	err = s.rUser.AddUserToken(user.ID, token.AccessToken)
	if err != nil {
		return nil, err
	}
	return token, nil
}

func (s *UserService) Logout(usrID uint64) error {
	if err := s.rUser.DeleteUserToken(usrID); err != nil {
		return err
	}
	return nil
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return pkg.Refresh(refreshToken)
}

// ChangePassword 登录态修改密码
func (s *UserService) ChangePassword(usrId uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrId)
	if err != nil {
		return err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword))
	if err != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.repo.UpdatePassword(user, string(hash))
	if err != nil {
		return err
	}

	err = s.Logout(usrId)
	return err
}
