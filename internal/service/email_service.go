package service

import (
	"Seva_Community/internal/pkg"
	"Seva_Community/internal/repository/redis"
)

type EmailService struct {
	emailCfg pkg.SMTPConfig
	rds      *redis.EmailRepository
}

func NewEmailService(cfg pkg.SMTPConfig) *EmailService {
	return &EmailService{emailCfg: cfg, rds: &redis.EmailRepository{}}
}

// SendRegisterCode 发送注册验证码
func (s *EmailService) SendRegisterCode(email string) error {
	return s.sendCode("register", email, "注册验证", "注册验证码")
}

// SendResetCode 发送重置密码验证码
func (s *EmailService) SendResetCode(email string) error {
	return s.sendCode("reset", email, "重置密码", "密码重置验证码")
}

// sendCode 两阶段写入：先写 pending，邮件发出后再转 confirmed，
// 校验只认 confirmed，避免邮件未送出验证码即生效
func (s *EmailService) sendCode(scope, email, title, subject string) error {
	code, err := pkg.RandDigits(6)
	if err != nil {
		return err
	}

	if err = s.rds.SetPending(scope, email, code); err != nil {
		return err
	}

	html := pkg.EmailCodeHTML(title, code, redis.DefaultEmailCodeTTL)
	if err = pkg.SendEmail(s.emailCfg, email, subject, html); err != nil {
		return err
	}

	if err = s.rds.Confirm(scope, email); err != nil {
		// 确认失败，清掉pending键
		_ = s.rds.DeletePending(scope, email)
		return err
	}
	return nil
}

// VerifyCode 校验验证码并一次性删除
func (s *EmailService) VerifyCode(scope, email, code string) (bool, error) {
	val, err := s.rds.GetConfirmed(scope, email)
	if err != nil {
		// 不存在或已过期
		return false, err
	}
	if val != code {
		return false, nil
	}
	if err = s.rds.DeleteConfirmed(scope, email); err != nil {
		return false, err
	}
	return true, nil
}
