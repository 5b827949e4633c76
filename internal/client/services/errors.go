package services

import (
	"errors"

	"github.com/dmitrijs2005/philosophies/internal/common"
)

var (
	ErrNotFound      = common.ErrorNotFound
	ErrDuplicateID   = errors.New("a philosophy with this id already exists")
	ErrNotImage      = errors.New("not an image file")
	ErrImageTooLarge = errors.New("image larger than 5MB")
)
