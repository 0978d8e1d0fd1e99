package idutil

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// NewSnowflakeNode creates the generator of ledger ids. Ids of one node are
// strictly increasing, so ordering by id is insertion order.
func NewSnowflakeNode(nodeID int64) (*snowflake.Node, error) {
	return snowflake.NewNode(nodeID)
}

// TimeOf returns the generation time embedded in a snowflake id.
func TimeOf(id int64) time.Time {
	return time.UnixMilli(snowflake.ParseInt64(id).Time())
}
