package report

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akovalenko/dupefinder/pkg/models"
)

// generateYAML generates a YAML report
func (g *Generator) generateYAML(result *models.ScanResult, outputFile string) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, data, 0644)
}
