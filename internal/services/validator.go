package services

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// min/max у validator для строк считают руны
const (
	nicknameRule  = "min=1,max=20"
	roomNameRule  = "required,min=1,max=50"
	roomLimitRule = "min=0,max=1000"
)

func validNickname(nickname string) bool {
	return validate.Var(nickname, nicknameRule) == nil
}
