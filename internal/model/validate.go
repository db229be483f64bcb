package model

import (
	"errors"
	"fmt"
)

// Structural invariant violations. Validate wraps them in *ValidationError.
var (
	ErrDuplicateOrder   = errors.New("duplicate order")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrMissingID        = errors.New("missing id")
	ErrHeadingLevel     = errors.New("heading level out of range")
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrContentMismatch  = errors.New("content does not match block type")
	ErrColumnCount      = errors.New("column count out of range")
)

// MaxColumns is the widest column layout a page master may request
const MaxColumns = 3

// ValidationError locates a structural violation in the document tree
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the structural invariants the engines rely on: unique
// order values within each parent, unique non-empty block ids, known block
// types with matching content, heading levels 1-6 and 1-3 columns. All
// violations are returned joined.
func (d *SemanticDocument) Validate() error {
	var errs []error
	fail := func(path string, err error) {
		errs = append(errs, &ValidationError{Path: path, Err: err})
	}

	sectionOrders := make(map[int]string)
	blockIDs := make(map[string]string)

	for si, s := range d.Sections {
		sPath := fmt.Sprintf("sections[%d]", si)
		if s.ID != "" {
			sPath = fmt.Sprintf("sections[%s]", s.ID)
		}
		if prev, ok := sectionOrders[s.Order]; ok {
			fail(sPath, fmt.Errorf("%w %d (also used by %s)", ErrDuplicateOrder, s.Order, prev))
		} else {
			sectionOrders[s.Order] = sPath
		}

		if cols := s.PageMaster.Columns; cols != 0 && (cols < 1 || cols > MaxColumns) {
			fail(sPath+".pageMaster", fmt.Errorf("%w: %d", ErrColumnCount, cols))
		}

		flowOrders := make(map[int]string)
		for fi, f := range s.Flows {
			fPath := fmt.Sprintf("%s.flows[%d]", sPath, fi)
			if prev, ok := flowOrders[f.Order]; ok {
				fail(fPath, fmt.Errorf("%w %d (also used by %s)", ErrDuplicateOrder, f.Order, prev))
			} else {
				flowOrders[f.Order] = fPath
			}

			blockOrders := make(map[int]string)
			for bi, b := range f.Blocks {
				bPath := fmt.Sprintf("%s.blocks[%d]", fPath, bi)
				if b.ID == "" {
					fail(bPath, ErrMissingID)
				} else if prev, ok := blockIDs[b.ID]; ok {
					fail(bPath, fmt.Errorf("%w %q (also used by %s)", ErrDuplicateID, b.ID, prev))
				} else {
					blockIDs[b.ID] = bPath
				}
				if prev, ok := blockOrders[b.Order]; ok {
					fail(bPath, fmt.Errorf("%w %d (also used by %s)", ErrDuplicateOrder, b.Order, prev))
				} else {
					blockOrders[b.Order] = bPath
				}
				errs = append(errs, validateBlock(bPath, b)...)
			}
		}
	}
	return errors.Join(errs...)
}

func validateBlock(path string, b Block) []error {
	if !b.Type.Valid() {
		return []error{&ValidationError{Path: path, Err: fmt.Errorf("%w: %q", ErrUnknownBlockType, b.Type)}}
	}
	if !contentMatches(b.Type, b.Content) {
		return []error{&ValidationError{Path: path, Err: fmt.Errorf("%w: %s", ErrContentMismatch, b.Type)}}
	}
	if b.Type == TypeHeading {
		if lvl := b.HeadingLevel(); lvl < 1 || lvl > 6 {
			return []error{&ValidationError{Path: path, Err: fmt.Errorf("%w: %d", ErrHeadingLevel, lvl)}}
		}
	}
	return nil
}
