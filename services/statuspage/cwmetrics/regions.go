package cwmetrics

import (
	"errors"
	"fmt"
)

// DefaultRegion is used when no region can be derived from the deployment
const DefaultRegion = "us-east-1"

// ErrUnknownRegion signals a region id or name outside the supported list
var ErrUnknownRegion = errors.New("unknown region")

// Region is an AWS region as shown in the region dropdown
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var regions = []Region{
	{ID: "us-east-1", Name: "US East (N. Virginia)"},
	{ID: "us-east-2", Name: "US East (Ohio)"},
	{ID: "us-west-1", Name: "US West (N. California)"},
	{ID: "us-west-2", Name: "US West (Oregon)"},
	{ID: "ca-central-1", Name: "Canada (Central)"},
	{ID: "ap-south-1", Name: "Asia Pacific (Mumbai)"},
	{ID: "ap-northeast-1", Name: "Asia Pacific (Tokyo)"},
	{ID: "ap-northeast-2", Name: "Asia Pacific (Seoul)"},
	{ID: "ap-southeast-1", Name: "Asia Pacific (Singapore)"},
	{ID: "ap-southeast-2", Name: "Asia Pacific (Sydney)"},
	{ID: "eu-central-1", Name: "EU (Frankfurt)"},
	{ID: "eu-west-1", Name: "EU (Ireland)"},
	{ID: "eu-west-2", Name: "EU (London)"},
	{ID: "sa-east-1", Name: "South America (Sao Paulo)"},
}

// Regions returns the supported regions
func Regions() []Region {
	result := make([]Region, len(regions))
	copy(result, regions)

	return result
}

// RegionByID returns the region with the provided id
func RegionByID(id string) (Region, error) {
	for _, r := range regions {
		if r.ID == id {
			return r, nil
		}
	}

	return Region{}, fmt.Errorf("%w: id %q", ErrUnknownRegion, id)
}

// RegionByName returns the region with the provided display name
func RegionByName(name string) (Region, error) {
	for _, r := range regions {
		if r.Name == name {
			return r, nil
		}
	}

	return Region{}, fmt.Errorf("%w: name %q", ErrUnknownRegion, name)
}

// ResolveRegion accepts either a region id or a region display name
func ResolveRegion(idOrName string) (Region, error) {
	r, err := RegionByID(idOrName)
	if err == nil {
		return r, nil
	}

	return RegionByName(idOrName)
}
