package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const factsCSV = `ano,sigla_uf,nome_municipio,nome_grande_regiao,pib_total,pib_per_capita,vab_agropecuaria,vab_industria,vab_servicos,vab_adm_defesa_educacao_saude,vab_total,atividade_maior_vab
2020,SP,Campinas,Sudeste,900,45000,100,200,300,300,900,Demais serviços
2021,SP,Campinas,Sudeste,1000,50000,100,250,350,300,1000,Demais serviços
2020,SP,Santos,Sudeste,450,22500,10,100,240,100,450,Demais serviços
2021,SP,Santos,Sudeste,500,25000,10,120,270,100,500,Demais serviços
2020,PR,Curitiba,Sul,700,35000,20,200,380,100,700,Demais serviços
2021,PR,Curitiba,Sul,800,40000,20,230,450,100,800,Demais serviços
`

// execute runs the root command against a CSV fact table and returns stdout.
func execute(t *testing.T, csv string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pib.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	t.Setenv("GDP_DATA_PATH", path)
	t.Setenv("GDP_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestKPIsCommand_JSON(t *testing.T) {
	out, err := execute(t, factsCSV, "kpis", "--state", "sp", "--year", "2021", "--format", "json")
	require.NoError(t, err)

	var k struct {
		Scope             string   `json:"scope"`
		GDPTotal          float64  `json:"gdp_total"`
		MunicipalityCount int      `json:"municipality_count"`
		GrowthVsPrior     *float64 `json:"growth_vs_prior_year"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &k))
	assert.Equal(t, "SP", k.Scope)
	assert.InDelta(t, 1500, k.GDPTotal, 1e-9)
	assert.Equal(t, 2, k.MunicipalityCount)
	require.NotNil(t, k.GrowthVsPrior)
	assert.InDelta(t, 100*(1500.0/1350-1), *k.GrowthVsPrior, 1e-9)
}

func TestRankCommand_States(t *testing.T) {
	out, err := execute(t, factsCSV, "rank", "--states", "--format", "json")
	require.NoError(t, err)

	var rows []struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "SP", rows[0].State)
	assert.Equal(t, "PR", rows[1].State)
}

func TestCheckCommand(t *testing.T) {
	out, err := execute(t, factsCSV, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Integridade (6 linhas)")

	dup := factsCSV + "2021,PR,Curitiba,Sul,800,40000,20,230,450,100,800,Demais serviços\n"
	out, err = execute(t, dup, "check")
	assert.ErrorContains(t, err, "integrity issues")
	assert.Contains(t, out, "Curitiba/PR/2021")
}

func TestTableCommand_RequiresScope(t *testing.T) {
	_, err := execute(t, factsCSV, "table")
	assert.ErrorContains(t, err, "--state or --states")
}
