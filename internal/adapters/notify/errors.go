package notify

import "errors"

var (
	ErrPublish   = errors.New("publish event failed")
	ErrSendMail  = errors.New("send mail failed")
	ErrNoAddress = errors.New("lead has no email address")
)
