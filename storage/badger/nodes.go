package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/citechat/core"
	"github.com/poiesic/citechat/storage"
)

// NodeRepository implements storage.NodeRepository for BadgerDB.
type NodeRepository struct {
	backend *Backend
}

var _ storage.NodeRepository = (*NodeRepository)(nil)

// NewNodeRepository creates a new NodeRepository.
func NewNodeRepository(backend *Backend) (storage.NodeRepository, error) {
	return &NodeRepository{
		backend: backend,
	}, nil
}

// Close releases repository resources. The backend is owned by the caller
// and is not closed here.
func (r *NodeRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *NodeRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.NodeWithScore, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// AddNodes adds one or more nodes to storage.
func (r *NodeRepository) AddNodes(ctx context.Context, nodes ...*core.Node) ([]*core.Node, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, node := range nodes {
			if err := core.ValidateNode(node); err != nil {
				return err
			}

			// Content-based IDs make re-ingesting the same text idempotent.
			if node.Id == 0 {
				node.Id = core.IDFromContent(node.Text)
			}

			node.InsertedAt = time.Now().UTC()
			node.UpdatedAt = node.InsertedAt

			key := makeNodeKey(uint64(node.Id))
			value := storage.MarshalNode(node)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// UpdateNodes updates existing nodes.
func (r *NodeRepository) UpdateNodes(ctx context.Context, nodes ...*core.Node) ([]*core.Node, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, node := range nodes {
			key := makeNodeKey(uint64(node.Id))

			old, err := r.readNode(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			node.InsertedAt = old.InsertedAt
			node.UpdatedAt = time.Now().UTC()

			value := storage.MarshalNode(node)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return nodes, err
}

// DeleteNodes removes nodes by their IDs.
func (r *NodeRepository) DeleteNodes(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNodeKey(uint64(id))

			node, err := r.readNode(tx, key)
			if err != nil {
				return err
			}
			if node == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetNode retrieves a single node by ID.
func (r *NodeRepository) GetNode(ctx context.Context, id core.ID) (*core.Node, error) {
	var result *core.Node
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNodeKey(uint64(id))
		var err error
		result, err = r.readNode(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetNodes retrieves multiple nodes by their IDs.
func (r *NodeRepository) GetNodes(ctx context.Context, ids ...core.ID) ([]*core.Node, error) {
	var result []*core.Node
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeNodeKey(uint64(id))
			node, err := r.readNode(tx, key)
			if err != nil {
				return err
			}
			if node != nil {
				result = append(result, node)
			}
		}
		return nil
	}, false)
	return result, err
}

// readNode reads a node from the transaction.
func (r *NodeRepository) readNode(tx *badger.Txn, key []byte) (*core.Node, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var node *core.Node
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		node, unmarshalErr = storage.UnmarshalNode(val)
		return unmarshalErr
	})
	return node, err
}
