package entity

// SocialAccount is the per-account social state. ReputationRaw is the signed
// sum of every live ledger entry crediting the account; Reputation is that
// sum floored at zero.
type SocialAccount struct {
	FollowersCount         uint32   `json:"followers_count"`
	FollowingAccountsCount uint32   `json:"following_accounts_count"`
	FollowingBlogsCount    uint32   `json:"following_blogs_count"`
	Reputation             uint32   `json:"reputation"`
	ReputationRaw          int64    `json:"reputation_raw"`
	Profile                *Profile `json:"profile,omitempty"`
}

type Profile struct {
	Created Change  `json:"created"`
	Updated *Change `json:"updated,omitempty"`

	Username string `json:"username"`
	IpfsHash string `json:"ipfs_hash"`
}

// ProfileUpdate is a partial update: a nil field means "no change".
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	IpfsHash *string `json:"ipfs_hash,omitempty"`
}

func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.IpfsHash == nil
}

type ProfileHistoryRecord struct {
	Edited  Change        `json:"edited"`
	OldData ProfileUpdate `json:"old_data"`
}
