package arcgis

import (
	"fmt"
	"time"
)

// DefaultWFIGSURL is the WFIGS incident-locations layer query endpoint.
const DefaultWFIGSURL = "https://services3.arcgis.com/T4QMspbfLg3qTGWY/arcgis/rest/services/WFIGS_Incident_Locations/FeatureServer/0/query"

const wfigsTimestampLayout = "2006-01-02 15:04:05"

// IncidentWhere builds the WFIGS where clause selecting incidents at least
// minSize acres discovered within [from, to]. Times are rendered in UTC.
func IncidentWhere(minSize float64, from, to time.Time) string {
	return fmt.Sprintf(
		"IncidentSize >= %g AND FireDiscoveryDateTime >= timestamp '%s' AND FireDiscoveryDateTime <= timestamp '%s'",
		minSize,
		from.UTC().Format(wfigsTimestampLayout),
		to.UTC().Format(wfigsTimestampLayout),
	)
}
