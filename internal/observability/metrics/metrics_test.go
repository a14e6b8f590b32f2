package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustRegisterAddsServiceLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustRegister(reg, "pets-api")

	AuthLoginsTotal.WithLabelValues("success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "auth_logins_total" {
			continue
		}
		found = true
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			assert.Equal(t, "pets-api", labels["service"])
		}
	}
	assert.True(t, found, "auth_logins_total not gathered")
}

func TestResult(t *testing.T) {
	assert.Equal(t, "success", Result(nil))
	assert.Equal(t, "failure", Result(errors.New("boom")))
}
