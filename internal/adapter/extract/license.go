package extract

import (
	"fmt"

	officelicense "github.com/unidoc/unioffice/common/license"
	pdflicense "github.com/unidoc/unipdf/v3/common/license"
)

// SetLicense installs a UniDoc metered API key for the PDF, DOCX and XLSX
// extractors. An empty key leaves them unlicensed, in which case every
// extraction of those formats fails with an ExtractionError.
func SetLicense(key string) error {
	if key == "" {
		return nil
	}
	if err := pdflicense.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set unipdf license: %w", err)
	}
	if err := officelicense.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set unioffice license: %w", err)
	}
	return nil
}
