package report

import (
	"encoding/json"
	"os"

	"github.com/akovalenko/dupefinder/pkg/models"
)

// generateJSON generates a JSON report
func (g *Generator) generateJSON(result *models.ScanResult, outputFile string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
