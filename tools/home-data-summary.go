// Tool created to verify the output of home_monitoring_data_gen.
//
// Usage: home-data-summary <run dir> [name]
//
// The name defaults to the run directory name without its timestamp.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/common"
	"github.com/homesim/home-monitoring-data-gen/bulk_data_gen/home"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: home-data-summary <run dir> [name]")
	}
	dir := os.Args[1]
	name := runName(dir)
	if len(os.Args) > 2 {
		name = os.Args[2]
	}

	temp := summarizeTables(dir, name, home.TempDataTag, func(t *common.Table, row int) string {
		return t.String(row, 2)
	})
	passive := summarizeTables(dir, name, home.DoorMotionDataTag, func(t *common.Table, row int) string {
		return t.String(row, 1)
	})
	fmt.Printf("%s: %d files, %d rows\n", home.TempDataTag, temp.files, temp.rows)
	printSensors(temp.perSensor)
	fmt.Printf("%s: %d files, %d rows\n", home.DoorMotionDataTag, passive.files, passive.rows)
	printSensors(passive.perSensor)

	files, err := common.ListStreamFiles(dir, name, home.CO2HumidityDataTag, common.TextFileExt)
	if err != nil {
		log.Fatal(err)
	}
	var co2, humidity int
	for _, f := range files {
		s, err := common.ReadTextFile(f)
		if err != nil {
			log.Fatal(err)
		}
		co2 += strings.Count(s, "ppm")
		humidity += strings.Count(s, "%")
	}
	fmt.Printf("%s: %d files, %d co2 readings, %d humidity readings\n", home.CO2HumidityDataTag, len(files), co2, humidity)

	files, err = common.ListStreamFiles(dir, name, home.SmokeDataTag, common.BinaryFileExt)
	if err != nil {
		log.Fatal(err)
	}
	events := make(map[byte]int)
	for _, f := range files {
		records, err := common.ReadSmokeRecords(f)
		if err != nil {
			log.Fatal(err)
		}
		for _, r := range records {
			events[r.Event]++
			fmt.Printf("  %04d-%02d-%02d %02d:%02d %c\n", r.Year, r.Month, r.Day, r.Hour, r.Minute, r.Event)
		}
	}
	fmt.Printf("%s: %d files, %d smoke events, %d dead batteries\n", home.SmokeDataTag, len(files),
		events[common.EventSmoke], events[common.EventBatteryDead])
}

// runName strips the _{timestamp} suffix of a run directory.
func runName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	n := len(base) - len(home.RunTagLayout) - 1
	if n <= 0 {
		return base
	}
	return base[:n]
}

type tableSummary struct {
	files     int
	rows      int
	perSensor map[string]int
}

func summarizeTables(dir, name, tag string, sensor func(*common.Table, int) string) tableSummary {
	files, err := common.ListStreamFiles(dir, name, tag, common.TableFileExt)
	if err != nil {
		log.Fatal(err)
	}
	sum := tableSummary{files: len(files), perSensor: make(map[string]int)}
	for _, f := range files {
		t, err := common.ReadTableFile(f)
		if err != nil {
			log.Fatal(err)
		}
		sum.rows += t.Len()
		for row := 0; row < t.Len(); row++ {
			sum.perSensor[sensor(t, row)]++
		}
	}
	return sum
}

func printSensors(m map[string]int) {
	for _, k := range sortedKeys(m) {
		fmt.Printf("  %-8s %d\n", k, m[k])
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
