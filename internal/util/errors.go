package util

import "errors"

var (
	ErrEmptyCredentials      = errors.New("用户名和密码不能为空")
	ErrReservedUsername      = errors.New("用户名 'admin' 为保留用户名，不能注册")
	ErrUsernameTaken         = errors.New("该用户名已被注册")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("用户不存在")
	ErrInsufficientQuestions = errors.New("not enough questions in the bank")
	ErrNoActiveSession       = errors.New("no active exam session")
	ErrSessionFinished       = errors.New("exam session already finished")
	ErrAttemptLimitReached   = errors.New("attempt limit reached")
	ErrAnswerAlreadySaved    = errors.New("answer already recorded for this question")
	ErrInvalidTestType       = errors.New("invalid test type")
	ErrQuestionNotFound      = errors.New("question not found")
)
