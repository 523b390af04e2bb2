package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DataDirName is the directory holding the database, relative to a project
// directory or the user's home directory
const DataDirName = ".caloriepad"

// DBPathEnv overrides database discovery. Special value ":memory:" is allowed.
const DBPathEnv = "CALORIEPAD_DB_PATH"

// DiscoverDatabase finds the database to use.
//
// Order:
//  1. CALORIEPAD_DB_PATH, used verbatim
//  2. .caloriepad/*.db in the current directory (not parents)
//  3. ~/.caloriepad/caloriepad.db, which need not exist yet
func DiscoverDatabase() (string, error) {
	if dbPath := os.Getenv(DBPathEnv); dbPath != "" {
		return dbPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	if path, ok, err := discoverDatabaseInDir(dir); err != nil {
		return "", err
	} else if ok {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf(
			"no %s/*.db found in %s and no home directory: %w\n"+
				"  Run 'caloriepad init' to create one here\n"+
				"  Or use --db to specify the database path explicitly",
			DataDirName, dir, err)
	}
	return filepath.Join(home, DataDirName, "caloriepad.db"), nil
}

// discoverDatabaseInDir checks for .caloriepad/*.db in dir only
func discoverDatabaseInDir(dir string) (string, bool, error) {
	dataDir := filepath.Join(dir, DataDirName)

	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return "", false, nil
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", dataDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".db") {
			continue
		}
		absPath, err := filepath.Abs(filepath.Join(dataDir, entry.Name()))
		if err != nil {
			return "", false, fmt.Errorf("failed to get absolute path: %w", err)
		}
		return absPath, true, nil
	}
	return "", false, nil
}

// InitProject creates the .caloriepad directory under projectDir and returns
// the database path to use. The database itself is created on first open.
func InitProject(projectDir, projectName string) (string, error) {
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		return "", fmt.Errorf("project directory does not exist: %s", projectDir)
	}

	dataDir := filepath.Join(projectDir, DataDirName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", DataDirName, err)
	}

	dbName := projectName
	if dbName == "" {
		dbName = filepath.Base(projectDir)
	}
	if !strings.HasSuffix(dbName, ".db") {
		dbName += ".db"
	}

	dbPath := filepath.Join(dataDir, dbName)
	if _, err := os.Stat(dbPath); err == nil {
		return "", fmt.Errorf("database already exists: %s", dbPath)
	}
	return dbPath, nil
}
