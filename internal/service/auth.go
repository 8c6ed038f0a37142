package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/talentoplus/backend/internal/auth"
	"github.com/talentoplus/backend/internal/cache"
	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	RegisterSuccessMessage = "Registro exitoso. Revisa tu correo."
	ResetRequestedMessage  = "Si el documento está registrado, enviamos un código de verificación a tu correo."
	defaultDisplayName     = "Usuario"
)

type RegisterResult struct {
	Message  string `json:"mensaje"`
	MailSent bool   `json:"correoEnviado"`
}

type LoginUser struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Name     string `json:"nombre"`
}

type LoginResult struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
	User       LoginUser `json:"user"`
}

type AuthService struct {
	accounts  AccountStore
	employees EmployeeStore
	codes     CodeStore
	mailer    Mailer
	issuer    *auth.Issuer
	otpTTL    time.Duration
	logger    *slog.Logger
}

func NewAuthService(store Store, codes CodeStore, mailer Mailer, issuer *auth.Issuer, otpTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		accounts:  store,
		employees: store,
		codes:     codes,
		mailer:    mailer,
		issuer:    issuer,
		otpTTL:    otpTTL,
		logger:    logger,
	}
}

// Register 只允许已经导入到员工名单中的证件号注册
func (s *AuthService) Register(ctx context.Context, document, email, password string) (*RegisterResult, error) {
	employee, err := s.employees.GetEmployeeByDocument(ctx, document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotEligible
		}
		return nil, err
	}

	if err := utils.ValidatePassword(password); err != nil {
		var policyErr *domain.PasswordPolicyError
		if errors.As(err, &policyErr) {
			return nil, &domain.AccountCreationError{Reasons: policyErr.Violations}
		}
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username:     document,
		Email:        email,
		PasswordHash: string(passwordHash),
		Roles:        []domain.Role{domain.RoleEmployee},
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, &domain.AccountCreationError{Reasons: []string{domain.ErrDuplicateUsername.Error()}}
		}
		return nil, err
	}

	// 欢迎邮件发送失败不影响注册结果
	mailSent := true
	err = s.mailer.Send(ctx, domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   email,
		Data: domain.WelcomeMailData{FirstName: employee.FirstName, Username: document},
	})
	if err != nil {
		s.logger.Warn("欢迎邮件发送失败", "username", document, "error", err)
		mailSent = false
	}

	return &RegisterResult{Message: RegisterSuccessMessage, MailSent: mailSent}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 管理员账户不一定有对应的员工
	var employeeID int64
	name := defaultDisplayName
	employee, err := s.employees.GetEmployeeByDocument(ctx, username)
	switch {
	case err == nil:
		employeeID = employee.ID
		name = employee.FirstName
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	token, expiration, err := s.issuer.Issue(account.Username, employeeID, account.Roles)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:      token,
		Expiration: expiration,
		User: LoginUser{
			UserName: account.Username,
			Email:    account.Email,
			Name:     name,
		},
	}, nil
}

// RequestPasswordReset 无论账户是否存在都返回成功，避免接口被用来探测账户
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) error {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}

	otp, err := utils.GenerateRandomOTP()
	if err != nil {
		return err
	}
	if err := s.codes.SaveCode(ctx, cache.ResetPasswordKey(account.Username), otp, s.otpTTL); err != nil {
		return err
	}

	firstName := defaultDisplayName
	if employee, err := s.employees.GetEmployeeByDocument(ctx, username); err == nil {
		firstName = employee.FirstName
	}

	err = s.mailer.Send(ctx, domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   account.Email,
		Data: domain.ResetPasswordMailData{
			FirstName:  firstName,
			OTP:        otp,
			Expiration: int(s.otpTTL.Minutes()),
		},
	})
	if err != nil {
		s.logger.Warn("重置密码邮件发送失败", "username", username, "error", err)
	}

	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, username, code, newPassword string) error {
	key := cache.ResetPasswordKey(username)

	stored, err := s.codes.GetCode(ctx, key)
	if err != nil {
		if errors.Is(err, cache.ErrCodeNotFound) {
			return domain.ErrInvalidCode
		}
		return err
	}
	if stored != code {
		return domain.ErrInvalidCode
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	if err := s.setPassword(ctx, username, newPassword); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvalidCode
		}
		return err
	}

	return s.codes.DeleteCode(ctx, key)
}

func (s *AuthService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	account, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	return s.setPassword(ctx, username, newPassword)
}

func (s *AuthService) setPassword(ctx context.Context, username, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.accounts.UpdateAccountPassword(ctx, username, string(passwordHash))
}

// EnsureAdmin 确保初始管理员存在，已经存在时什么也不做
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(passwordHash),
		Roles:        []domain.Role{domain.RoleAdmin},
	}
	if err := s.accounts.CreateAccount(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
