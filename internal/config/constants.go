package config

// Application constants for the TrialPulse dashboard.
const (
	AppName    = "TrialPulse"
	AppVersion = "1.2.0"

	// DefaultScreenFailureRate is the fixed fallback when the rate can be
	// neither overridden nor calculated from either input table.
	DefaultScreenFailureRate = 50.0

	// DefaultMonthlyTarget is the default monthly randomization target.
	DefaultMonthlyTarget = 10

	// MinScreenedForSiteRate is the minimum screened-subject count for a site
	// to appear in the meaningful screen-failure displays.
	MinScreenedForSiteRate = 5

	// SaturationMultiplier replaces the screenings-needed division when the
	// screen-failure rate reaches 100%, where the formula would divide by
	// zero or go negative.
	SaturationMultiplier = 5
)

// Canonical column names shared by the three input tables.
const (
	ColSiteID            = "Site ID"
	ColSiteName          = "Site Name"
	ColSiteNumber        = "Site Number"
	ColCountry           = "Country"
	ColStatus            = "Status"
	ColSubjectStatus     = "Subject Status"
	ColScreened          = "Screened"
	ColScreenFailed      = "Screen Failed"
	ColRandomized        = "Randomized"
	ColInvestigator      = "Investigator"
	ColSiteActivatedDate = "Site Activated Date"
	ColFirstScreening    = "1st Screening"
	ColFirstEnrollment   = "1st Enrollment"
	ColPIFirstName       = "PI First Name"
	ColPILastName        = "PI Last Name"
	ColTotal             = "Total"
)

// ColumnSynonyms maps each canonical column name to the ordered list of
// accepted alternate headers. The first synonym present in a table wins;
// resolution happens once at load time.
var ColumnSynonyms = map[string][]string{
	ColSiteID:            {"SiteID", "Site Number", "Site"},
	ColSiteName:          {"Site", "Center Name", "Center"},
	ColCountry:           {"Region", "Nation", "Location"},
	ColScreened:          {"Total Screened", "Screening", "Screenings"},
	ColScreenFailed:      {"Screen Fails", "Failed", "Failed Screening"},
	ColRandomized:        {"Enrolled", "Randomizations", "Total Randomized"},
	ColStatus:            {"Site Status", "Active Status", "Status"},
	ColSubjectStatus:     {"Status", "Participant Status", "Patient Status"},
	ColInvestigator:      {"PI", "PI Name", "Principal Investigator"},
	ColSiteNumber:        {"Site ID", "SiteID", "Site"},
	ColSiteActivatedDate: {"Activation Date", "Activated On", "Date Activated"},
}

// DateLayouts are tried in order when parsing date cells.
var DateLayouts = []string{
	"02-Jan-2006",
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"January 2, 2006",
}

// MonthLayouts are tried in order when deciding whether a column header is a
// month column.
var MonthLayouts = []string{
	"Jan-2006",
	"January-2006",
	"01-2006",
}

// NonMonthColumns are headers of the monthly summary that are never month
// columns, no matter what they parse as.
var NonMonthColumns = map[string]bool{
	ColSiteID:          true,
	ColSiteName:        true,
	ColPIFirstName:     true,
	ColPILastName:      true,
	ColStatus:          true,
	ColCountry:         true,
	ColFirstScreening:  true,
	ColFirstEnrollment: true,
	ColSubjectStatus:   true,
	ColTotal:           true,
}

// DefaultCOSLNames is the round-robin fallback pool used when neither a COSL
// column nor a PI column exists in the site-master data.
var DefaultCOSLNames = []string{
	"Evelina Pogoriler",
	"Jayden Cho",
	"Janice Graboso",
	"Farah Ridore",
	"Malini Shankar",
}

// Required logical columns per input table.
var (
	EnrollmentRequiredColumns = []string{ColSiteID, ColSiteName, ColCountry, ColScreened, ColScreenFailed, ColRandomized}
	MonthlyRequiredColumns    = []string{ColSiteID, ColSiteName, ColStatus, ColCountry, ColSubjectStatus}
	SiteRequiredColumns       = []string{ColSiteNumber, ColCountry, ColSiteActivatedDate}
)
