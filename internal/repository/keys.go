package repository

import (
	"encoding/binary"

	"anoa.com/blogsocial/internal/entity"
	"github.com/google/uuid"
)

// Key layout
//
//	seq/<kind>                      next id of an entity space
//	ent/<kind>/<node>               entity record
//	hist/<kind>/<node>/<seq>        edit history, one record per key
//	idx/<edge>/f/<a>/<b>            forward set member of a
//	idx/<edge>/r/<b>/<a>            reverse set member of b
//	uniq/<namespace>/<key>          single-valued unique index
//	ledger/<actor>/<action>/<target> applied score delta
//	shares/<kind>/<account><id>     per-account share counter
//
// Ids are 8-byte big-endian and accounts 16 raw bytes, so prefix scans come
// back in ascending id order.

// Node is the encoded form of one endpoint of an index edge.
type Node []byte

func IDNode(id uint64) Node {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, id)
	return b
}

func AccountNode(account uuid.UUID) Node {
	return account[:]
}

func (n Node) ID() uint64 {
	return binary.BigEndian.Uint64(n)
}

func (n Node) Account() uuid.UUID {
	var u uuid.UUID
	copy(u[:], n)
	return u
}

func join(parts ...[]byte) []byte {
	size := 0
	for _, p := range parts {
		size += len(p) + 1
	}
	key := make([]byte, 0, size)
	for i, p := range parts {
		if i > 0 {
			key = append(key, '/')
		}
		key = append(key, p...)
	}
	return key
}

func seqKey(kind entity.Kind) []byte {
	return join([]byte("seq"), []byte(kind))
}

func entityKey(kind entity.Kind, n Node) []byte {
	return join([]byte("ent"), []byte(kind), n)
}

func historyPrefix(kind entity.Kind, n Node) []byte {
	return append(join([]byte("hist"), []byte(kind), n), '/')
}

func historyKey(kind entity.Kind, n Node, seq uint64) []byte {
	return append(historyPrefix(kind, n), IDNode(seq)...)
}

func forwardPrefix(edge Edge, a Node) []byte {
	return append(join([]byte("idx"), []byte(edge), []byte("f"), a), '/')
}

func reversePrefix(edge Edge, b Node) []byte {
	return append(join([]byte("idx"), []byte(edge), []byte("r"), b), '/')
}

func uniqueKey(ns string, key []byte) []byte {
	return join([]byte("uniq"), []byte(ns), key)
}

func ledgerKey(actor uuid.UUID, action entity.ScoringAction, target entity.Target) []byte {
	var t Node
	if target.Kind == entity.KindAccount {
		t = AccountNode(target.Account)
	} else {
		t = IDNode(target.ID)
	}
	return join([]byte("ledger"), AccountNode(actor), []byte(action), []byte(target.Kind), t)
}

func sharesKey(kind entity.Kind, account uuid.UUID, id uint64) []byte {
	return join([]byte("shares"), []byte(kind), append(AccountNode(account)[:16:16], IDNode(id)...))
}

func pairKey(account uuid.UUID, id uint64) []byte {
	return append(IDNode(id), account[:]...)
}
