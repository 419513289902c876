package config

// DefaultConfigTOML is the annotated configuration template written by
// `dupfind init`. All values match the built-in defaults, so every setting
// can stay commented out until it needs changing.
const DefaultConfigTOML = `# dupfind configuration file
# All settings are optional; values shown are the defaults.

[analysis]
# Minimum block size for duplicate candidates
# min_lines = 5
# min_tokens = 50

# Minimum fused similarity for a fuzzy match (0.0-1.0)
# similarity_threshold = 0.8

# Normalization applied before comparison
# ignore_whitespace = true
# ignore_comments = true
# ignore_imports = true

[input]
# Paths to analyze when none are given on the command line
# paths = ["."]
# recursive = true

# File selection patterns (doublestar globs)
# include_patterns = ["**/*.js", "**/*.jsx", "**/*.ts", "**/*.tsx"]
# exclude_patterns = ["**/*.test.*", "**/*.spec.*", "**/node_modules/**"]

[output]
# Output format: text, json, yaml, csv
# format = "text"

# Include source previews in text output
# show_content = false

# Sort results by: similarity, size, location
# sort_by = "similarity"
`
