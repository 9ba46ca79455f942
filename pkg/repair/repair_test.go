package repair_test

import (
	"testing"

	"github.com/gnames/cfgrepair/internal/iorepair"
	"github.com/gnames/cfgrepair/pkg/config"
	"github.com/gnames/cfgrepair/pkg/repair"
	"github.com/stretchr/testify/assert"
)

// TestRepairerContract ensures that the iorepair implementation
// satisfies the repair.Repairer interface.
func TestRepairerContract(t *testing.T) {
	var r repair.Repairer = iorepair.New(config.New())
	assert.NotNil(t, r)
}

func TestRemovalString(t *testing.T) {
	tests := []struct {
		msg string
		rm  repair.Removal
		res string
	}{
		{
			msg: "named",
			rm:  repair.Removal{Table: "Users", Column: "age"},
			res: "Removed default from required column age in table Users",
		},
		{
			msg: "placeholders",
			rm: repair.Removal{
				Table:  repair.Placeholder,
				Column: repair.Placeholder,
			},
			res: "Removed default from required column (unknown) " +
				"in table (unknown)",
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, v.rm.String(), v.msg)
	}
}
