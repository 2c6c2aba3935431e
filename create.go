package onetool

import (
	"fmt"
	"time"

	"github.com/akeil/onetool/internal/logging"
)

// CreationSkew is how much older than the request a new page may appear
// before Create assumes it picked up the wrong page.
const CreationSkew = 5 * time.Second

// Create adds a new page to the section, opens it and sets its title.
// If lines are given they are added as the initial content.
//
// The new page is identified as the last page of the section. If that page
// was created well before the request, Create fails with a
// *StaleCreationError and leaves the editor unchanged.
func (e *Editor) Create(section *Section, title string, lines ...string) error {
	requested := e.now()

	err := e.c.CreateNewPage(section.ID)
	if err != nil {
		return Wrap(err, "create page in section %q", section.ID)
	}

	data, err := e.c.GetHierarchy(section.ID, ScopePages)
	if err != nil {
		return Wrap(err, "get hierarchy for section %q", section.ID)
	}
	root, err := Parse(data)
	if err != nil {
		return err
	}

	fresh := DecodeSection(root, e.ns)
	if fresh.ID != section.ID {
		return fmt.Errorf("hierarchy for section %q returned %q", section.ID, fresh.ID)
	}

	page := fresh.Last()
	if page == nil {
		return &StaleCreationError{
			Requested: requested,
			Reason:    fmt.Sprintf("section %q has no pages", section.ID),
		}
	}

	created, err := page.Created()
	if err != nil {
		return &StaleCreationError{
			PageID:    page.ID,
			Requested: requested,
			Reason:    fmt.Sprintf("invalid creation time %q", page.DateTime),
		}
	}
	if requested.Sub(created) > CreationSkew {
		return &StaleCreationError{
			PageID:    page.ID,
			Created:   created,
			Requested: requested,
		}
	}

	logging.Info("Created page %q in section %q", page.ID, section.ID)

	err = e.Open(page)
	if err != nil {
		return err
	}

	err = e.UpdateTitle(title)
	if err != nil {
		return err
	}

	if len(lines) > 0 {
		return e.AddLines(lines...)
	}
	return nil
}
