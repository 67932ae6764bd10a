// Command geomatch annotates timestamped events (photographs) with
// coordinates from a Google Takeout location history export by matching each
// event to the history record nearest in time.
package main
