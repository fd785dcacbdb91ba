package repository

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"anoa.com/blogsocial/internal/entity"
	"anoa.com/blogsocial/pkg/kvstore"
	"github.com/google/uuid"
)

func historySeqKey(kind entity.Kind, n Node) []byte {
	return join([]byte("hseq"), []byte(kind), n)
}

// appendHistory adds record at the end of the edit log of (kind, n).
func (r *Repository) appendHistory(kind entity.Kind, n Node, record any) error {
	var seq uint64
	raw, err := r.tx.Get(historySeqKey(kind, n))
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
	case err != nil:
		return err
	default:
		seq = binary.BigEndian.Uint64(raw)
	}
	if err := store(r.tx, historyKey(kind, n, seq), record); err != nil {
		return err
	}
	return r.tx.Set(historySeqKey(kind, n), IDNode(seq+1))
}

// history reads the edit log of (kind, n), oldest first.
func history[T any](r *Repository, kind entity.Kind, n Node) ([]T, error) {
	records := []T{}
	err := r.tx.Scan(historyPrefix(kind, n), func(_, value []byte) error {
		var rec T
		if err := json.Unmarshal(value, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (r *Repository) BlogHistory(id entity.BlogID) ([]entity.BlogHistoryRecord, error) {
	return history[entity.BlogHistoryRecord](r, entity.KindBlog, IDNode(uint64(id)))
}

func (r *Repository) PostHistory(id entity.PostID) ([]entity.PostHistoryRecord, error) {
	return history[entity.PostHistoryRecord](r, entity.KindPost, IDNode(uint64(id)))
}

func (r *Repository) CommentHistory(id entity.CommentID) ([]entity.CommentHistoryRecord, error) {
	return history[entity.CommentHistoryRecord](r, entity.KindComment, IDNode(uint64(id)))
}

func (r *Repository) ProfileHistory(account uuid.UUID) ([]entity.ProfileHistoryRecord, error) {
	return history[entity.ProfileHistoryRecord](r, entity.KindAccount, AccountNode(account))
}
