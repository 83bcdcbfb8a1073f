package models

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	slugRe     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

var (
	ErrUsernameReserved = errors.New("username 'me' is reserved")
	ErrUsernameInvalid  = errors.New("username contains invalid characters")
	ErrSlugInvalid      = errors.New("slug may only contain letters, numbers, hyphens and underscores")
)

// ValidateUsername 用户名校验：保留字 me 和非法字符都不允许
func ValidateUsername(username string) error {
	if username == "me" {
		return ErrUsernameReserved
	}
	if !usernameRe.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidateSlug slug 校验
func ValidateSlug(slug string) error {
	if !slugRe.MatchString(slug) {
		return ErrSlugInvalid
	}
	return nil
}

// CurrentYear 当前年份，作品年份上界
func CurrentYear() int {
	return time.Now().Year()
}

// ValidateYear 年份校验：1800 < year <= 当前年份
func ValidateYear(year int) error {
	if year <= 1800 || year > CurrentYear() {
		return fmt.Errorf("year must be between 1801 and %d", CurrentYear())
	}
	return nil
}

// ValidateScore 评分校验：1-10 闭区间
func ValidateScore(score int) error {
	if score < 1 || score > 10 {
		return errors.New("score must be between 1 and 10")
	}
	return nil
}
