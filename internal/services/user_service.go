package services

import (
	"context"
	"errors"

	"timebridge_backend/internal/logger"
	"timebridge_backend/internal/models"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/services/dto"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"timebridge_backend/pkg/apperrors"
)

// Mailer отправляет письмо автору объявления. В тестах подменяется фейком.
type Mailer interface {
	SendContact(ownerEmail, postID, fromName, fromEmail, message string) error
}

// SessionStore выдает и гасит сессии. Реализуется session.Manager поверх
// Redis; в тестах подменяется фейком.
type SessionStore interface {
	Create(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}

type UserService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	sessions SessionStore
	mailer   Mailer
	posts    *PostService
}

func NewUserService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	sessions SessionStore,
	mailer Mailer,
	posts *PostService,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
		sessions: sessions,
		mailer:   mailer,
		posts:    posts,
	}
}

// Register создает аккаунт. Пароль хранится только как bcrypt-хеш.
func (s *UserService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	birthday, err := parseDate(req.Birthday)
	if err != nil {
		return nil, apperrors.NewBadRequestError("invalid birthday date")
	}

	user := &models.User{
		UserID:    req.UserID,
		UserName:  req.Name,
		UserEmail: req.Email,
		UserPw:    string(hash),
		Birthday:  birthday,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserExists) {
			return nil, apperrors.ErrAlreadyExists(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}

	logger.CtxInfo(ctx, "аккаунт зарегистрирован", "user_id", user.UserID)
	return toUserResponse(user), nil
}

// Login проверяет пароль и выдает сессию.
func (s *UserService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByID(db, req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, invalidCredentials()
		}
		return nil, apperrors.ErrPersistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.UserPw), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	sessionID, err := s.sessions.Create(ctx, user.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		SessionID: sessionID,
		User:      *toUserResponse(user),
	}, nil
}

// Logout гасит сессию. Незнакомая сессия не считается ошибкой.
func (s *UserService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Profile возвращает аккаунт без пароля.
func (s *UserService) Profile(ctx context.Context, db *gorm.DB, userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.ErrPersistence(err)
	}
	return toUserResponse(user), nil
}

// IsAdmin сообщает, есть ли у пользователя права модератора.
func (s *UserService) IsAdmin(db *gorm.DB, userID string) (bool, error) {
	user, err := s.userRepo.GetByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// DeleteAccount удаляет аккаунт вместе со всеми его объявлениями, включая
// их изображения и записи в индексах.
func (s *UserService) DeleteAccount(ctx context.Context, db *gorm.DB, userID, sessionID string) error {
	posts, err := s.postRepo.ListByUser(db, userID)
	if err != nil {
		return apperrors.ErrPersistence(err)
	}

	for i := range posts.MissingPosts {
		if err := s.posts.Delete(ctx, db, userID, false, posts.MissingPosts[i].MpID); err != nil {
			return err
		}
	}
	for i := range posts.FamilyPosts {
		if err := s.posts.Delete(ctx, db, userID, false, posts.FamilyPosts[i].FpID); err != nil {
			return err
		}
	}

	if err := s.userRepo.Delete(db, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.ErrPersistence(err)
	}

	if sessionID != "" {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			logger.CtxWithError(ctx, "не удалось погасить сессию", err, "user_id", userID)
		}
	}

	logger.CtxInfo(ctx, "аккаунт удален", "user_id", userID)
	return nil
}

// ContactPostOwner пересылает сообщение автору объявления по почте, не
// раскрывая его адрес отправителю.
func (s *UserService) ContactPostOwner(ctx context.Context, db *gorm.DB, fromUserID, postID, message string) error {
	kind, err := models.ParsePostID(postID)
	if err != nil {
		return apperrors.ErrInvalidPostID
	}

	ownerID, err := s.postRepo.OwnerID(db, kind, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return apperrors.ErrPostNotFound(err)
		}
		return apperrors.ErrPersistence(err)
	}

	owner, err := s.userRepo.GetByID(db, ownerID)
	if err != nil {
		return apperrors.ErrPersistence(err)
	}
	sender, err := s.userRepo.GetByID(db, fromUserID)
	if err != nil {
		return apperrors.ErrPersistence(err)
	}

	if err := s.mailer.SendContact(owner.UserEmail, postID, sender.UserName, sender.UserEmail, message); err != nil {
		return apperrors.ErrRemoteService(err, "failed to send email")
	}
	return nil
}

func toUserResponse(user *models.User) *dto.UserResponse {
	return &dto.UserResponse{
		UserID:   user.UserID,
		Name:     user.UserName,
		Email:    user.UserEmail,
		Birthday: user.Birthday,
		IsAdmin:  user.IsAdmin,
	}
}

func invalidCredentials() *apperrors.AppError {
	return apperrors.New(
		apperrors.CodeInvalidCredentials,
		"auth",
		"Неверный идентификатор или пароль",
		401,
	)
}
