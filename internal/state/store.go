package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// StateFile is the hidden per-feature-directory state document.
const StateFile = ".flowspec-state.json"

// Store defines the persistence interface for workflow state.
// Abstracted for testability (DIP). Every call takes the feature
// directory explicitly — there is no ambient current feature.
type Store interface {
	// Initialize creates a fresh state record for featureDir and writes
	// it, unconditionally overwriting any pre-existing state. This is an
	// explicit reset operation.
	Initialize(featureDir, description string) (*State, error)

	// Read returns the current state, or (nil, nil) if no state file
	// exists or the stored content is not valid JSON — absence and
	// corruption are treated identically.
	Read(featureDir string) (*State, error)

	// Update sets CurrentStep to step, shallow-merges partial into that
	// step's payload with completed forced true, writes the document
	// back, and returns the updated state. If no state exists yet, one
	// is initialized first with an empty description.
	Update(featureDir string, step Step, partial StepData) (*State, error)
}

// FileStore implements Store using the local filesystem.
type FileStore struct{}

// NewFileStore creates a filesystem-backed state store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// StatePath returns the absolute path to a feature's state document.
func StatePath(featureDir string) string {
	return filepath.Join(featureDir, StateFile)
}

// Initialize creates and persists a new state record.
func (fs *FileStore) Initialize(featureDir, description string) (*State, error) {
	if featureDir == "" {
		return nil, fmt.Errorf("feature directory must not be empty")
	}

	st := &State{
		FeatureDir:  featureDir,
		CurrentStep: StepSpecify,
		StepStatus:  make(map[Step]StepData),
		Metadata: Metadata{
			StartedAt:          timeNow().UTC().Format(time.RFC3339),
			FeatureDescription: description,
		},
	}

	if err := fs.write(featureDir, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Read loads the state document for featureDir. A missing file and an
// unparseable file both yield (nil, nil).
func (fs *FileStore) Read(featureDir string) (*State, error) {
	if featureDir == "" {
		return nil, fmt.Errorf("feature directory must not be empty")
	}

	data, err := os.ReadFile(StatePath(featureDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading state %s: %w", StatePath(featureDir), err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupt state is indistinguishable from no state.
		return nil, nil
	}
	return &st, nil
}

// Update applies a merge-style step update and persists the result.
func (fs *FileStore) Update(featureDir string, step Step, partial StepData) (*State, error) {
	if err := ValidateStep(step); err != nil {
		return nil, err
	}

	st, err := fs.Read(featureDir)
	if err != nil {
		return nil, err
	}
	if st == nil {
		st, err = fs.Initialize(featureDir, "")
		if err != nil {
			return nil, err
		}
	}

	st.CurrentStep = step
	if st.StepStatus == nil {
		st.StepStatus = make(map[Step]StepData)
	}
	st.StepStatus[step] = mergeStepData(st.StepStatus[step], partial)

	// complete is the only step nothing sets automatically; when a
	// caller does reach it, stamp the finish time.
	if step == StepComplete && st.Metadata.CompletedAt == "" {
		st.Metadata.CompletedAt = timeNow().UTC().Format(time.RFC3339)
	}

	if err := fs.write(featureDir, st); err != nil {
		return nil, err
	}
	return st, nil
}

// write marshals and persists the full document, overwriting wholesale.
func (fs *FileStore) write(featureDir string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if err := os.MkdirAll(featureDir, 0o755); err != nil {
		return fmt.Errorf("creating feature directory %s: %w", featureDir, err)
	}

	path := StatePath(featureDir)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state %s: %w", path, err)
	}
	return nil
}
