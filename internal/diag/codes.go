package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Configuration errors: caller mistakes in class descriptions.
	// Non-recoverable for the affected class, never corrupt other classes.
	CfgInfo               Code = 1000
	CfgMultipleSuperclass Code = 1001
	CfgUnknownSuperclass  Code = 1002
	CfgUnfinishedSuper    Code = 1003
	CfgEmptyVerbatimBody  Code = 1004
	CfgSignatureMismatch  Code = 1005
	CfgDuplicateField     Code = 1006
	CfgFieldShadowsChain  Code = 1007
	CfgBadTypeRef         Code = 1008
	CfgDuplicateClass     Code = 1009
	CfgMissingRoot        Code = 1010
	CfgInheritanceCycle   Code = 1011
	CfgBadMethodName      Code = 1012

	// Translation errors: opaque failures of the body translator.
	// Abort only the owning class's generation.
	TrnInfo   Code = 2000
	TrnFailed Code = 2001

	// Emission errors: unresolved references during artifact rendering.
	// Abort only the affected artifact.
	EmtInfo       Code = 3000
	EmtUnresolved Code = 3001
	EmtWriteFail  Code = 3002
)

func (c Code) String() string {
	switch {
	case c >= 3000:
		return fmt.Sprintf("EMT%04d", uint16(c))
	case c >= 2000:
		return fmt.Sprintf("TRN%04d", uint16(c))
	case c >= 1000:
		return fmt.Sprintf("CFG%04d", uint16(c))
	default:
		return fmt.Sprintf("OOG%04d", uint16(c))
	}
}

// IsConfig reports whether the code is a configuration-family error.
func (c Code) IsConfig() bool { return c >= CfgInfo && c < TrnInfo }

// IsTranslation reports whether the code is a translation-family error.
func (c Code) IsTranslation() bool { return c >= TrnInfo && c < EmtInfo }

// IsEmission reports whether the code is an emission-family error.
func (c Code) IsEmission() bool { return c >= EmtInfo }
