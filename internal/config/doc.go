// Package config loads the ratelens configuration.
//
// # Configuration Sources
//
// Sources are applied in increasing order of precedence:
//
//  1. Default values (Default)
//  2. YAML file (explicit path, $RATELENS_CONFIG, ratelens.yaml, configs/ratelens.yaml)
//  3. .env file in the working directory (never overrides variables already set)
//  4. Environment variables
//
// # Environment Variables
//
// Variables follow the pattern RATELENS_<SECTION>_<FIELD>, where field
// names are split on word boundaries (MaxSizeMB becomes MAX_SIZE_MB).
// Unprefixed variables such as PATH or PORT are never read:
//
//	RATELENS_SOURCE_PATH=data/rates.csv
//	RATELENS_SOURCE_DELIMITER=;
//	RATELENS_RENDER_MODE=workbook
//	RATELENS_LOGGING_LEVEL=debug
//	RATELENS_SERVER_PORT=9000
//
// # Validation
//
// Load validates the merged result with go-playground/validator struct tags
// and returns an AppError of type CONFIG on failure.
package config
