package payment

import "testing"

func TestStatusFromGateway(t *testing.T) {
	cases := []struct {
		gateway string
		want    Status
	}{
		{"settlement", StatusSuccess},
		{"capture", StatusSuccess},
		{"pending", StatusPending},
		{"deny", StatusPending},
		{"cancel", StatusPending},
		{"expire", StatusPending},
		{"failure", StatusPending},
		{"", StatusPending},
		{"SETTLEMENT", StatusPending}, // gateway sends lowercase only
	}
	for _, c := range cases {
		if got := StatusFromGateway(c.gateway); got != c.want {
			t.Errorf("StatusFromGateway(%q)=%s, want %s", c.gateway, got, c.want)
		}
	}
}
