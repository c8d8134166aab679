package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("America/New_York")
	if err != nil {
		panic(err)
	}
}

// pin date_pulled stamps to the bureau's timezone so the same pull
// gets the same date no matter where the job happens to run
func Now() time.Time {
	return time.Now().In(Location)
}
