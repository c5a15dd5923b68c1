package feed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSources reads and validates the sources file.
func LoadSources(path string) (*SourcesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var config SourcesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse sources YAML: %w", err)
	}

	setDefaults(&config)

	if err := validateSources(&config); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}

	return &config, nil
}

func setDefaults(config *SourcesConfig) {
	if config.Settings.MaxItemsPerFeed == 0 {
		config.Settings.MaxItemsPerFeed = 10
	}

	for i := range config.Categories {
		cat := &config.Categories[i]
		if cat.Label == "" {
			cat.Label = cat.Name
		}
	}

	for i := range config.PaperCategories {
		cat := &config.PaperCategories[i]
		if cat.Label == "" {
			cat.Label = cat.Name
		}
		if cat.Query == "" {
			cat.Query = cat.Name
		}
	}
}

func validateSources(config *SourcesConfig) error {
	if config.Settings.MaxItemsPerFeed < 1 {
		return fmt.Errorf("max_items_per_feed must be >= 1")
	}
	if config.Settings.MaxAgeHours < 0 {
		return fmt.Errorf("max_age_hours must be non-negative")
	}

	feedCount := 0
	for _, cat := range config.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category name is required")
		}
		for _, f := range cat.Feeds {
			if f.Name == "" {
				return fmt.Errorf("feed name is required in category %s", cat.Name)
			}
			if f.URL == "" {
				return fmt.Errorf("feed URL is required for %s", f.Name)
			}
			if f.MaxItems < 0 {
				return fmt.Errorf("max_items must be non-negative for %s", f.Name)
			}
			feedCount++
		}
	}

	if feedCount == 0 {
		return fmt.Errorf("no feeds configured")
	}

	for _, cat := range config.PaperCategories {
		if cat.Name == "" {
			return fmt.Errorf("paper category name is required")
		}
	}

	return nil
}

// AllFeeds flattens the category tree into fetchable feed references,
// in sources-file order.
func (c *SourcesConfig) AllFeeds() []FeedRef {
	var refs []FeedRef
	for _, cat := range c.Categories {
		for _, f := range cat.Feeds {
			maxItems := f.MaxItems
			if maxItems == 0 {
				maxItems = c.Settings.MaxItemsPerFeed
			}
			refs = append(refs, FeedRef{
				Name:          f.Name,
				URL:           f.URL,
				MaxItems:      maxItems,
				Category:      cat.Name,
				CategoryLabel: cat.Label,
			})
		}
	}
	return refs
}
