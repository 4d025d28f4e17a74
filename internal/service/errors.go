package service

import "errors"

// 서비스 공통 에러 분류
// handler 레이어가 sentinel 매칭으로 HTTP 상태 코드를 결정함
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrEmptyGroup    = errors.New("no alerts found in this group")
	ErrRCAInProgress = errors.New("rca generation already in progress")
)
