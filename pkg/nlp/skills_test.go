package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "c++ and c# developer", Normalize("  C++ and C#, Developer! "))
	assert.Equal(t, "разработчик go", Normalize("Разработчик (Go)"))
}

func TestVariants(t *testing.T) {
	assert.Equal(t, []string{"golang", "go"}, Variants("Golang"))
	assert.Equal(t, []string{"postgres replication", "postgresql replication"}, Variants("Postgres replication"))
	assert.Empty(t, Variants("  "))
}

func TestMatchSkills(t *testing.T) {
	jd := "We need a Go engineer with PostgreSQL, Kubernetes and REST APIs experience."
	matched, missing := MatchSkills(jd, []string{"Golang", "Postgres", "k8s", "REST", "Rust", ""})
	assert.Equal(t, []string{"Golang", "Postgres", "k8s", "REST"}, matched)
	assert.Equal(t, []string{"Rust"}, missing)
}
