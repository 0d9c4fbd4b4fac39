package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/PalletLoad/internal/model"
)

func layoutOf(c model.Container, instances ...*model.Instance) model.LayoutResult {
	return model.LayoutResult{Container: c, Settings: model.DefaultSettings(), Instances: instances}
}

func rules(vs []Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Rule)
	}
	return out
}

func TestCheckInvariants_Overlap(t *testing.T) {
	c := container40ft(t)
	a := onFloor(unit("a", 100, 100, 100, 100), 0, 0)
	b := onFloor(unit("b", 100, 100, 100, 100), 100.5, 0)

	vs := CheckInvariants(layoutOf(c, a, b))

	assert.Equal(t, []string{RuleOverlap}, rules(vs))
	assert.Contains(t, vs[0].String(), "overlaps b:0")
}

func TestCheckInvariants_OverlapIgnoresDifferentLevels(t *testing.T) {
	c := container40ft(t)
	a := onFloor(unit("a", 100, 100, 100, 1000), 0, 0)
	b := unit("b", 100, 100, 100, 100)
	b.Placed, b.Z, b.StackedOn = true, 100, a
	a.Children = []*model.Instance{b}

	assert.Empty(t, CheckInvariants(layoutOf(c, a, b)))
}

func TestCheckInvariants_Containment(t *testing.T) {
	c := container40ft(t)
	wide := onFloor(unit("wide", 100, 100, 100, 100), 0, 200)
	tall := onFloor(unit("tall", 100, 100, 300, 100), 500, 0)

	vs := CheckInvariants(layoutOf(c, wide, tall))

	assert.Equal(t, []string{RuleContainment, RuleContainment}, rules(vs))
}

func TestCheckInvariants_LinksAndPermissions(t *testing.T) {
	c := container40ft(t)
	base := onFloor(unit("base", 100, 100, 100, 1000), 0, 0)
	base.CanStackAbove = false
	item := unit("item", 100, 100, 100, 100)
	item.CanStackBelow = false
	item.Placed, item.Z, item.StackedOn = true, 100, base

	vs := CheckInvariants(layoutOf(c, base, item))

	assert.ElementsMatch(t, []string{RuleLinks, RulePermission}, rules(vs))

	base.Children = []*model.Instance{item}
	vs = CheckInvariants(layoutOf(c, base, item))
	assert.ElementsMatch(t, []string{RulePermission, RulePermission}, rules(vs))
}

func TestCheckInvariants_Weight(t *testing.T) {
	c := container40ft(t)
	base := onFloor(unit("base", 100, 100, 50, 100), 0, 0)
	item := unit("item", 100, 100, 50, 600)
	item.Placed, item.Z, item.StackedOn = true, 50, base
	base.Children = []*model.Instance{item}

	vs := CheckInvariants(layoutOf(c, base, item))

	assert.Equal(t, []string{RuleWeight}, rules(vs))
}
