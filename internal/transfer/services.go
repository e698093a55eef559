package transfer

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/yourtrip/intermodal/internal/models"
)

// ServiceAggregator resolves which services call at a set of stops.
type ServiceAggregator struct {
	services ServiceStore
}

func NewServiceAggregator(services ServiceStore) *ServiceAggregator {
	return &ServiceAggregator{services: services}
}

// AttachServices looks up all memberships for stops in a single store call
// and groups them by stop code. Each stop's services are de-duplicated and
// ordered with CompareServiceNo. Stops with no services are absent from the
// map. No store call is made for an empty input.
func (a *ServiceAggregator) AttachServices(ctx context.Context, stops []models.Stop) (map[string][]string, error) {
	grouped := make(map[string][]string)
	if len(stops) == 0 {
		return grouped, nil
	}

	codes := make([]string, 0, len(stops))
	seen := make(map[string]struct{}, len(stops))
	for _, stop := range stops {
		if _, ok := seen[stop.Code]; ok {
			continue
		}
		seen[stop.Code] = struct{}{}
		codes = append(codes, stop.Code)
	}
	sort.Strings(codes)

	memberships, err := a.services.ServicesForStops(ctx, codes)
	if err != nil {
		return nil, newDownstreamError(StageServiceLookup, err)
	}

	perStop := make(map[string]map[string]struct{})
	for _, m := range memberships {
		if _, wanted := seen[m.StopCode]; !wanted || m.ServiceNo == "" {
			continue
		}
		set, ok := perStop[m.StopCode]
		if !ok {
			set = make(map[string]struct{})
			perStop[m.StopCode] = set
		}
		set[m.ServiceNo] = struct{}{}
	}

	for code, set := range perStop {
		services := make([]string, 0, len(set))
		for s := range set {
			services = append(services, s)
		}
		sortServices(services)
		grouped[code] = services
	}

	return grouped, nil
}

// UniqueServiceCount counts distinct service ids across all stops.
func UniqueServiceCount(grouped map[string][]string) int {
	unique := make(map[string]struct{})
	for _, services := range grouped {
		for _, s := range services {
			unique[s] = struct{}{}
		}
	}
	return len(unique)
}

func sortServices(services []string) {
	sort.Slice(services, func(i, j int) bool {
		return CompareServiceNo(services[i], services[j]) < 0
	})
}

// CompareServiceNo orders route numbers by numeric prefix, then by suffix:
// "2" < "2A" < "10". Ids without a numeric prefix sort after numbered ones,
// lexically among themselves.
func CompareServiceNo(a, b string) int {
	aNum, aSuffix, aOK := splitServiceNo(a)
	bNum, bSuffix, bOK := splitServiceNo(b)

	switch {
	case aOK && !bOK:
		return -1
	case !aOK && bOK:
		return 1
	case aOK && bOK:
		if aNum != bNum {
			if aNum < bNum {
				return -1
			}
			return 1
		}
		if c := strings.Compare(aSuffix, bSuffix); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func splitServiceNo(s string) (uint64, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, s, false
	}
	return n, s[i:], true
}
