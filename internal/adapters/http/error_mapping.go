package httpadapter

import (
	"errors"
	"fmt"

	"github.com/avolkov/whitepaper-library/internal/core/domain"
)

// bannerMessage turns a pipeline error into the banner text shown above the
// library. Validation-style errors carry their own user-facing wording and
// are shown verbatim; everything else gets a generic prefix.
func bannerMessage(err error) string {
	var userErr *domain.UserError
	if errors.As(err, &userErr) {
		return userErr.Message
	}
	return fmt.Sprintf("Error: %v", err)
}
