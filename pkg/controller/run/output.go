package run

import (
	"encoding/json"
	"fmt"
)

func (c *Controller) outputJSON(result *Result) error {
	encoder := json.NewEncoder(c.param.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode the result as JSON: %w", err)
	}
	return nil
}
