package services

import (
	"cmp"
	"fmt"
	"slices"

	"autosales-dashboard/internal/models"
)

type Reducer int

const (
	Sum Reducer = iota
	Mean
)

type accumulator struct {
	sum   float64
	count int
}

func (a accumulator) reduce(r Reducer) float64 {
	if r == Mean {
		return a.sum / float64(a.count)
	}
	return a.sum
}

// GroupBy partitions records by key and reduces value per partition. Points
// come back in ascending key order. Records whose string key is blank belong
// to no group, the same as a missing cell in the source data.
func GroupBy[K cmp.Ordered](
	records []models.SalesRecord,
	key func(models.SalesRecord) K,
	value func(models.SalesRecord) float64,
	reducer Reducer,
) []models.ChartPoint {
	groups := make(map[K]*accumulator)
	for _, r := range records {
		k := key(r)
		if s, isString := any(k).(string); isString && s == "" {
			continue
		}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{}
			groups[k] = acc
		}
		acc.sum += value(r)
		acc.count++
	}

	keys := make([]K, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	points := make([]models.ChartPoint, 0, len(keys))
	for _, k := range keys {
		points = append(points, models.ChartPoint{
			Label: fmt.Sprint(k),
			Value: groups[k].reduce(reducer),
		})
	}
	return points
}

func Filter(records []models.SalesRecord, keep func(models.SalesRecord) bool) []models.SalesRecord {
	var out []models.SalesRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func byYear(r models.SalesRecord) int           { return r.Year }
func byMonth(r models.SalesRecord) string       { return r.Month }
func byVehicleType(r models.SalesRecord) string { return r.VehicleType }

func automobileSales(r models.SalesRecord) float64        { return r.AutomobileSales }
func advertisingExpenditure(r models.SalesRecord) float64 { return r.AdvertisingExpenditure }
