package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Slug     string `validate:"required,min=5,max=10"`
	IpfsHash string `validate:"len=4"`
	Kind     string `validate:"oneof=upvote downvote"`
}

func TestFormatValidationError(t *testing.T) {
	v := validator.New()
	err := v.Struct(sample{Slug: "abc", IpfsHash: "Qm", Kind: "like"})

	msg := FormatValidationError(err)
	assert.Contains(t, msg, "slug must be at least 5 characters")
	assert.Contains(t, msg, "ipfs_hash must be exactly 4 characters")
	assert.Contains(t, msg, "kind must be one of [upvote downvote]")
}

func TestFirstReason(t *testing.T) {
	v := validator.New()
	assert.Equal(t, "must be at most 3 characters", FirstReason(v.Var("abcd", "max=3")))
	assert.Equal(t, "is required", FirstReason(v.Var("", "required")))
	assert.Equal(t, "plain", FirstReason(errors.New("plain")))
}
