package codegen

import (
	"strconv"
	"strings"

	"github.com/kolah/apigen/internal/ordered"
)

// AddOperationToGroup appends co to the operations of tag. An operationId
// already taken within the group gets a numeric suffix.
func (c *Codegen) AddOperationToGroup(tag string, co *Operation, groups *ordered.Map[string, []*Operation]) {
	ops := groups.Value(tag)
	unique := co.OperationID
	counter := 0
	for _, op := range ops {
		if unique == op.OperationID {
			unique = co.OperationID + "_" + strconv.Itoa(counter)
			counter++
		}
	}
	if unique != co.OperationID {
		c.logger.Warn("generated unique operationId", "operationId", unique, "tag", tag)
	}
	co.OperationID = unique
	co.OperationIDLowerCase = strings.ToLower(unique)
	co.BaseName = tag
	groups.Set(tag, append(ops, co))
}
