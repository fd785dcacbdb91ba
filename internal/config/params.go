package config

import (
	"errors"
	"fmt"
	"os"

	"anoa.com/blogsocial/internal/entity"
	"gopkg.in/yaml.v2"
)

var ErrInvalidParams = errors.New("invalid parameters")

const (
	DefaultSlugMinLen     = 5
	DefaultSlugMaxLen     = 50
	DefaultIpfsHashLen    = 46
	DefaultUsernameMinLen = 3
	DefaultUsernameMaxLen = 50
)

// Params are the length bounds and scoring weights the graph is governed by.
type Params struct {
	SlugMinLen     int `yaml:"slug_min_len"`
	SlugMaxLen     int `yaml:"slug_max_len"`
	IpfsHashLen    int `yaml:"ipfs_hash_len"`
	UsernameMinLen int `yaml:"username_min_len"`
	UsernameMaxLen int `yaml:"username_max_len"`

	Weights map[entity.ScoringAction]int16 `yaml:"weights"`
}

func DefaultParams() Params {
	return Params{
		SlugMinLen:     DefaultSlugMinLen,
		SlugMaxLen:     DefaultSlugMaxLen,
		IpfsHashLen:    DefaultIpfsHashLen,
		UsernameMinLen: DefaultUsernameMinLen,
		UsernameMaxLen: DefaultUsernameMaxLen,
		Weights: map[entity.ScoringAction]int16{
			entity.UpvotePost:      5,
			entity.DownvotePost:    -3,
			entity.SharePost:       5,
			entity.CreateComment:   5,
			entity.UpvoteComment:   4,
			entity.DownvoteComment: -2,
			entity.ShareComment:    3,
			entity.FollowBlog:      7,
			entity.FollowAccount:   3,
		},
	}
}

// paramsFile mirrors Params with optional fields so a file may override only
// some values.
type paramsFile struct {
	SlugMinLen     *int                           `yaml:"slug_min_len"`
	SlugMaxLen     *int                           `yaml:"slug_max_len"`
	IpfsHashLen    *int                           `yaml:"ipfs_hash_len"`
	UsernameMinLen *int                           `yaml:"username_min_len"`
	UsernameMaxLen *int                           `yaml:"username_max_len"`
	Weights        map[entity.ScoringAction]int16 `yaml:"weights"`
}

// LoadParams returns the defaults overridden by the YAML file at path. An
// empty path yields the defaults.
func LoadParams(path string) (Params, error) {
	if path == "" {
		return DefaultParams(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, err
	}
	return ParseParams(data)
}

func ParseParams(data []byte) (Params, error) {
	var file paramsFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	p := DefaultParams()
	override(&p.SlugMinLen, file.SlugMinLen)
	override(&p.SlugMaxLen, file.SlugMaxLen)
	override(&p.IpfsHashLen, file.IpfsHashLen)
	override(&p.UsernameMinLen, file.UsernameMinLen)
	override(&p.UsernameMaxLen, file.UsernameMaxLen)
	for action, weight := range file.Weights {
		p.Weights[action] = weight
	}

	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

func (p Params) Validate() error {
	if p.SlugMinLen < 1 || p.SlugMinLen > p.SlugMaxLen {
		return fmt.Errorf("%w: slug bounds %d..%d", ErrInvalidParams, p.SlugMinLen, p.SlugMaxLen)
	}
	if p.UsernameMinLen < 1 || p.UsernameMinLen > p.UsernameMaxLen {
		return fmt.Errorf("%w: username bounds %d..%d", ErrInvalidParams, p.UsernameMinLen, p.UsernameMaxLen)
	}
	if p.IpfsHashLen < 1 {
		return fmt.Errorf("%w: ipfs hash length %d", ErrInvalidParams, p.IpfsHashLen)
	}

	known := make(map[entity.ScoringAction]bool, len(entity.ScoringActions))
	for _, action := range entity.ScoringActions {
		known[action] = true
		if _, ok := p.Weights[action]; !ok {
			return fmt.Errorf("%w: missing weight for %s", ErrInvalidParams, action)
		}
	}
	for action := range p.Weights {
		if !known[action] {
			return fmt.Errorf("%w: unknown scoring action %q", ErrInvalidParams, action)
		}
	}
	return nil
}

// Weight is the configured signed weight of action.
func (p Params) Weight(action entity.ScoringAction) int16 {
	return p.Weights[action]
}

func override(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
