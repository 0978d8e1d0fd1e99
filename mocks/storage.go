package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Storage struct {
	mock.Mock
}

func (s *Storage) PutFile(arg1 context.Context, arg2 string, arg3 []byte, arg4 string) (string, error) {
	args := s.Called(arg1, arg2, arg3, arg4)
	return args.String(0), args.Error(1)
}

func (s *Storage) PublicURL(arg1 string) string {
	args := s.Called(arg1)
	return args.String(0)
}
