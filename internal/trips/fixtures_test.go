package trips

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// chicagoCSV has every optional column. Days: 2017-01-01 Sunday,
// 2017-01-02 Monday, 2017-03-06 Monday, 2017-06-23 Friday.
const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:20:53,776,Canal St & Madison St,Clinton St & Washington Blvd,Subscriber,Male,1992.0
1,2017-01-02 09:10:00,2017-01-02 09:30:00,1200,Canal St & Madison St,Streeter Dr & Grand Ave,Customer,,
2,2017-03-06 17:00:00,2017-03-06 17:06:00,360,Streeter Dr & Grand Ave,Canal St & Madison St,Subscriber,Female,1985.0
3,2017-03-06 17:30:00,2017-03-06 17:40:00,600,Canal St & Madison St,Clinton St & Washington Blvd,Subscriber,Male,1992.0
4,2017-06-23 08:00:00,2017-06-23 08:30:00,1800,Clinton St & Washington Blvd,Canal St & Madison St,Customer,Female,1970.0
`

// washingtonCSV has neither Gender nor Birth Year.
const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
0,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
1,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
2,2017-05-30 01:02:59,2017-05-30 01:13:37,637.251,17th St & Massachusetts Ave NW,5th & K St NW,Customer
`

func readFixture(t *testing.T, csv string) *Table {
	t.Helper()
	tbl, err := ReadTable(strings.NewReader(csv), nil)
	require.NoError(t, err)
	return tbl
}

// writeFixture writes csv into dir and returns the file path.
func writeFixture(t *testing.T, dir, name, csv string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(csv), 0644))
	return path
}

// tableOf builds a table straight from trips for stats tests.
func tableOf(schema Schema, rows ...Trip) *Table {
	return &Table{Columns: []string{ColStartTime}, Schema: schema, Trips: rows}
}
