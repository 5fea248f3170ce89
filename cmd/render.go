package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rotisserie/eris"

	"github.com/sells-group/gdp-dashboard/internal/aggregate"
	"github.com/sells-group/gdp-dashboard/internal/dashboard"
	"github.com/sells-group/gdp-dashboard/internal/model"
	"github.com/sells-group/gdp-dashboard/internal/numfmt"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	if title != "" {
		t.SetTitle(title)
	}
	return t
}

// numericColumns right-aligns the given 1-based columns.
func numericColumns(t table.Writer, cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.SetColumnConfigs(cfgs)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

func sectorYearNote(year, sectorYear int) string {
	if sectorYear == 0 || sectorYear == year {
		return ""
	}
	return fmt.Sprintf(" (setores: %d)", sectorYear)
}

func renderMunicipalityKPIs(w io.Writer, f *numfmt.Formatter, k *aggregate.MunicipalityKPIs) {
	t := newTable(w, fmt.Sprintf("%s (%s), %d", k.Municipality.Name, k.Municipality.State, k.Year))
	t.AppendHeader(table.Row{"Indicador", "Valor"})
	numericColumns(t, 2)
	pop := numfmt.NA
	if k.Population != nil {
		pop = f.Integer(*k.Population)
	}
	perCapita := k.GDPPerCapita
	t.AppendRows([]table.Row{
		{"PIB", f.Currency(k.GDPTotal)},
		{"População estimada", pop},
		{"PIB per capita", f.PerCapita(&perCapita)},
		{"Crescimento anual", f.Percent(k.GrowthVsPrior)},
		{"Dependência pública" + sectorYearNote(k.Year, k.SectorYear), f.Share(k.PublicSectorShare)},
		{"Atividade de maior VAB", orNA(k.DominantSector)},
	})
	t.Render()
}

func renderAggregateKPIs(w io.Writer, f *numfmt.Formatter, title string, ks []aggregate.AggregateKPIs) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Escopo", "PIB", "População", "PIB per capita", "Crescimento", "Municípios", "Dependência pública", "Setor dominante"})
	numericColumns(t, 2, 3, 4, 5, 6, 7)
	for _, k := range ks {
		t.AppendRow(table.Row{
			k.Scope,
			f.Currency(k.GDPTotal),
			f.Integer(k.Population),
			f.PerCapita(k.GDPPerCapita),
			f.Percent(k.GrowthVsPrior),
			f.Integer(float64(k.MunicipalityCount)),
			f.Share(k.PublicSectorShare),
			orNA(k.DominantSector),
		})
	}
	t.Render()
}

func renderMunicipalityRanking(w io.Writer, f *numfmt.Formatter, title string, rows []aggregate.MunicipalityRank, perCapita bool) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"#", "Município", "UF", "Valor"})
	numericColumns(t, 1, 4)
	for i, r := range rows {
		value := f.Currency(r.Value)
		if perCapita {
			v := r.Value
			value = f.PerCapita(&v)
		}
		t.AppendRow(table.Row{i + 1, r.Municipality, r.State, value})
	}
	t.Render()
}

func renderStateRanking(w io.Writer, f *numfmt.Formatter, title string, rows []aggregate.StateRank) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"#", "UF", "PIB", "População", "PIB per capita", "Municípios"})
	numericColumns(t, 1, 3, 4, 5, 6)
	for i, r := range rows {
		t.AppendRow(table.Row{
			i + 1, r.State,
			f.Currency(r.GDPTotal),
			f.Integer(r.Population),
			f.PerCapita(r.GDPPerCapita),
			r.MunicipalityCount,
		})
	}
	t.Render()
}

func renderMunicipalities(w io.Writer, f *numfmt.Formatter, title string, rows []aggregate.MunicipalityRow) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Município", "UF", "PIB", "PIB per capita", "População", "Dependência pública", "Crescimento", "Atividade de maior VAB"})
	numericColumns(t, 3, 4, 5, 6, 7)
	for _, r := range rows {
		pc := r.GDPPerCapita
		pop := numfmt.NA
		if r.Population != nil {
			pop = f.Integer(*r.Population)
		}
		t.AppendRow(table.Row{
			r.Municipality, r.State,
			f.Currency(r.GDPTotal),
			f.PerCapita(&pc),
			pop,
			f.Share(r.PublicSectorShare),
			f.Percent(r.Growth),
			orNA(r.DominantSector),
		})
	}
	t.Render()
}

func renderStates(w io.Writer, f *numfmt.Formatter, title string, rows []aggregate.StateRow) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"UF", "PIB", "PIB per capita", "População", "Municípios", "Dependência pública", "Crescimento", "Setor dominante"})
	numericColumns(t, 2, 3, 4, 5, 6, 7)
	for _, r := range rows {
		t.AppendRow(table.Row{
			r.State,
			f.Currency(r.GDPTotal),
			f.PerCapita(r.GDPPerCapita),
			f.Integer(r.Population),
			r.MunicipalityCount,
			f.Share(r.PublicSectorShare),
			f.Percent(r.Growth),
			orNA(r.DominantSector),
		})
	}
	t.Render()
}

func renderComposition(w io.Writer, f *numfmt.Formatter, title string, shares []aggregate.SectorShare) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Setor", "VAB", "Participação"})
	numericColumns(t, 2, 3)
	for _, s := range shares {
		share := s.Share
		t.AppendRow(table.Row{s.Label, f.Currency(s.ValueAdded), f.Share(&share)})
	}
	t.Render()
}

func renderIntegrity(w io.Writer, rep model.IntegrityReport) {
	t := newTable(w, fmt.Sprintf("Integridade (%d linhas)", rep.Rows))
	t.AppendHeader(table.Row{"Verificação", "Ocorrências", "Exemplo"})
	numericColumns(t, 2)
	for _, c := range []struct {
		name string
		keys []model.RowKey
	}{
		{"chave duplicada", rep.Duplicates},
		{"PIB não positivo", rep.NonPositive},
		{"VAB total diverge dos setores", rep.ValueAddedMismatch},
	} {
		example := "-"
		if len(c.keys) > 0 {
			example = c.keys[0].String()
		}
		t.AppendRow(table.Row{c.name, len(c.keys), example})
	}
	t.Render()
}

// renderView prints the panels of v that have a terminal rendering.
func renderView(w io.Writer, f *numfmt.Formatter, v *dashboard.View) {
	if v.MunicipalityKPIs != nil {
		renderMunicipalityKPIs(w, f, v.MunicipalityKPIs)
	}
	if v.AggregateKPIs != nil {
		renderAggregateKPIs(w, f, fmt.Sprintf("%s, %d", v.Title, v.Year), []aggregate.AggregateKPIs{*v.AggregateKPIs})
	}
	if len(v.EntityKPIs) > 0 {
		renderAggregateKPIs(w, f, fmt.Sprintf("Comparação, %d", v.Year), v.EntityKPIs)
	}
	if v.Growth != nil {
		fmt.Fprintf(w, "Crescimento %d-%d: %s\n", v.Range.Start, v.Range.End, f.Percent(v.Growth))
	}
	if len(v.Comparison) > 0 {
		renderMunicipalityRanking(w, f, "Comparação por PIB", v.Comparison, false)
	}
	if len(v.RankingGDP) > 0 {
		renderMunicipalityRanking(w, f, "Maiores PIBs", v.RankingGDP, false)
	}
	if len(v.RankingPerCapita) > 0 {
		renderMunicipalityRanking(w, f, "Maiores PIBs per capita", v.RankingPerCapita, true)
	}
	if len(v.StateRankingGDP) > 0 {
		renderStateRanking(w, f, "UFs por PIB", v.StateRankingGDP)
	}
	if len(v.Composition) > 0 {
		renderComposition(w, f, "Composição do VAB", v.Composition)
	}
	if len(v.MunicipalitiesRows) > 0 {
		renderMunicipalities(w, f, "Municípios", v.MunicipalitiesRows)
	}
	if len(v.StatesRows) > 0 {
		renderStates(w, f, "UFs", v.StatesRows)
	}
	for _, p := range v.Unavailable {
		fmt.Fprintf(w, "%s: dados não disponíveis\n", p)
	}
}

func orNA(s string) string {
	if s == "" {
		return numfmt.NA
	}
	return s
}
