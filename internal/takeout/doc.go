// Package takeout decodes the Google Takeout "Location History.json" export
// into raw records for the history index.
//
// The export carries a top-level "locations" array whose entries hold a
// decimal-string timestampMs plus optional latitudeE7/longitudeE7 fixed-point
// coordinates. The decoder keeps normalization out of scope: it surfaces the
// fields as-is and leaves sorting and E7 conversion to history.Build.
package takeout
