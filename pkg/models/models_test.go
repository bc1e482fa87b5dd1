package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanNoticePipeline(t *testing.T) {
	got := CleanNotice(`<b>bold</b> hi &amp; bye. Second sentence.`)
	assert.Equal(t, NoticeMessage("bold hi & bye."), got)
}

func TestCleanNoticeVariants(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"No terminator here", "No terminator here"},
		{"Spaced   out    text.", "Spaced out text."},
		{"&lt;p&gt;markup is stripped after decoding!&lt;/p&gt;", "markup is stripped after decoding!"},
		{"Line\nbreaks\r\ncollapse. More.", "Line breaks collapse."},
		{"Trouble ahead? Yes.", "Trouble ahead?"},
		{"<a href='x'>link</a> done.", "link done."},
	}
	for _, tc := range cases {
		assert.Equal(t, NoticeMessage(tc.want), CleanNotice(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeOperator(t *testing.T) {
	assert.Equal(t, "LNER", NormalizeOperator("London North Eastern Railway"))
	assert.Equal(t, "Great Western", NormalizeOperator("  Great Western Railway  "))
	// unmapped passes through trimmed
	assert.Equal(t, "Hull Trains", NormalizeOperator(" Hull Trains "))
}

func TestBusDetectionFromCategoryOnly(t *testing.T) {
	rec := ServiceRecord{Scheduled: "10:00", Destination: "Reading", Platform: "4"}
	rec.Classify(BusSignals{Category: "bus replacement"})
	assert.True(t, rec.Bus)
	assert.Empty(t, rec.Platform, "bus services have no platform")
}

func TestBusDetectionSignals(t *testing.T) {
	cases := []struct {
		name string
		sig  BusSignals
		want bool
	}{
		{"service type", BusSignals{ServiceType: "Bus"}, true},
		{"isBus true", BusSignals{IsBusFlag: "true"}, true},
		{"isBus 1", BusSignals{IsBusFlag: "1"}, true},
		{"platform coach", BusSignals{Platform: " Coach "}, true},
		{"operator replacement", BusSignals{Operator: "Rail Replacement Services"}, true},
		{"plain train", BusSignals{ServiceType: "train", Platform: "2", Operator: "LNER"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.sig.IsBus())
		})
	}
}

func TestClassifyEstimate(t *testing.T) {
	assert.Equal(t, StatusAlert, ClassifyEstimate("Cancelled"))
	assert.Equal(t, StatusAlert, ClassifyEstimate("Delayed"))
	assert.Equal(t, StatusWarn, ClassifyEstimate("10:42"))
	assert.Equal(t, StatusWarn, ClassifyEstimate("Running late"))
	assert.Equal(t, StatusOK, ClassifyEstimate("On time"))
}

func TestKeep(t *testing.T) {
	assert.True(t, ServiceRecord{Scheduled: "09:00"}.Keep())
	assert.True(t, ServiceRecord{Destination: "Oxford"}.Keep())
	assert.False(t, ServiceRecord{Estimate: "On time", Platform: "1"}.Keep())
}
