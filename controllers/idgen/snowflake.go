package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	initOnce sync.Once
	initErr  error
)

// Init prepares the snowflake node. Safe to call more than once; only the
// first call's node number is used.
func Init(nodeID int64) error {
	initOnce.Do(func() {
		node, initErr = snowflake.NewNode(nodeID)
		if initErr != nil {
			initErr = fmt.Errorf("init snowflake node %d: %w", nodeID, initErr)
		}
	})
	return initErr
}

func GenerateID() int64 {
	// no-op once main() has called Init; covers tests and seeders
	if err := Init(1); err != nil {
		panic(err)
	}
	return node.Generate().Int64()
}
