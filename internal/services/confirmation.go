package services

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// 确认码有效期：过期后需要重新发起注册请求来获取新码
const ConfirmationCodeTTL = 24 * time.Hour

const confirmationCodeLength = 6

var (
	ErrCodeInvalid = errors.New("invalid confirmation code")
	ErrCodeExpired = errors.New("confirmation code expired")
)

// GenerateConfirmationCode 生成数字确认码，返回原文和 bcrypt 哈希。
// 原文只通过邮件送达，数据库只存哈希。
func GenerateConfirmationCode() (code string, hash string, err error) {
	var b strings.Builder
	b.Grow(confirmationCodeLength)
	for i := 0; i < confirmationCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	code = b.String()

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hashBytes), nil
}

// CheckConfirmationCode 校验确认码。
// 失败不会使码失效（重新注册即可换码），但过期时间限制了猜测窗口。
func CheckConfirmationCode(hash, code string, issuedAt *time.Time) error {
	if hash == "" || issuedAt == nil {
		return ErrCodeInvalid
	}
	if time.Since(*issuedAt) > ConfirmationCodeTTL {
		return ErrCodeExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) != nil {
		return ErrCodeInvalid
	}
	return nil
}
