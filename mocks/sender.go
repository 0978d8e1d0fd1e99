package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Sender struct {
	mock.Mock
}

func (s *Sender) IsConfigured() bool {
	args := s.Called()
	return args.Bool(0)
}

func (s *Sender) SendHTML(arg1 context.Context, arg2 []string, arg3, arg4 string) error {
	args := s.Called(arg1, arg2, arg3, arg4)
	return args.Error(0)
}
