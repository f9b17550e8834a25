package service

import (
	"errors"
	"time"

	"Seva_Community/internal/model"
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/query"
	"Seva_Community/internal/repository"
	"Seva_Community/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserDisabled    = errors.New("user is not active")
)

type UserService struct {
	repo     *repository.UserRepository
	rUser    *redis.UserRepository
	tokens   *pkg.TokenIssuer
	emailSvc *EmailService
}

func NewUserService(repo *repository.UserRepository, tokens *pkg.TokenIssuer, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     repo,
		rUser:    &redis.UserRepository{},
		tokens:   tokens,
		emailSvc: emailSvc,
	}
}

func (s *UserService) Register(fullName, password, email, code string) (*model.User, error) {
	// 验证code是否正确
	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return nil, errors.New("verification failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           pkg.NewID(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       model.StatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	created, err := s.repo.Create(user)
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *UserService) Login(email, password string) (*pkg.Pair, error) {
	user, ok := s.repo.GetByEmail(email)
	if !ok {
		return nil, ErrUserNotFound
	}
	if user.Status != model.StatusActive {
		return nil, ErrUserDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}

	token, err := s.tokens.GeneratePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	// 将token写入redis
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, err
	}

	now := time.Now()
	_, _, _ = s.repo.Update(user.ID, func(u *model.User) { u.LastLoginAt = &now })
	return token, nil
}

func (s *UserService) Logout(userID string) error {
	return s.rUser.DeleteUserToken(userID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	return s.tokens.Refresh(refreshToken)
}

// ResetPassword 用邮箱验证码重置密码（无需登录态）
func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return errors.New("verification failed")
	}

	user, found := s.repo.GetByEmail(email)
	if !found {
		return ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, _, err = s.repo.Update(user.ID, func(u *model.User) {
		u.PasswordHash = string(hash)
	}); err != nil {
		return err
	}
	return s.Logout(user.ID)
}

// ChangePassword 登录态修改密码
func (s *UserService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, found := s.repo.GetByID(userID)
	if !found {
		return ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, _, err = s.repo.Update(userID, func(u *model.User) {
		u.PasswordHash = string(hash)
	}); err != nil {
		return err
	}
	// 改密后踢掉现有登录态
	return s.Logout(userID)
}

func (s *UserService) GetUser(userID string) (*model.User, error) {
	user, ok := s.repo.GetByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile 部分更新资料
func (s *UserService) UpdateProfile(userID string, patch model.UserPatch) (*model.User, error) {
	user, ok, err := s.repo.Update(userID, func(u *model.User) { patch.Apply(u) })
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers role/status 为空表示不过滤，search 匹配姓名或邮箱
func (s *UserService) ListUsers(role, status, search string, page, size int) []*model.User {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	f := query.NewFilter().Order("created_at", true).Page((page-1)*size, size)
	if role != "" {
		f = f.Eq("role", role)
	}
	if status != "" {
		f = f.Eq("status", status)
	}
	if search != "" {
		f = f.Contains(search, "full_name", "email")
	}
	return s.repo.List(f)
}

// DeleteUser 删除账号并清理登录态
func (s *UserService) DeleteUser(userID string) error {
	if _, ok := s.repo.Delete(userID); !ok {
		return ErrUserNotFound
	}
	return s.Logout(userID)
}
