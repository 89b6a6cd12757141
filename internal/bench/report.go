package bench

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/opt"
)

var recordHeader = []string{
	"run_id", "algo", "packages", "runs",
	"time_best_ms", "time_mean_ms", "time_std_ms",
	"score_best", "score_mean", "score_std",
	"evaluations_mean",
}

func recordRow(r Record) []any {
	return []any{
		r.RunID, r.Algo, r.Packages, r.Runs,
		r.TimeBestMs, r.TimeMeanMs, r.TimeStdMs,
		r.ScoreBest, r.ScoreMean, r.ScoreStd,
		r.EvaluationsMean,
	}
}

var routeHeader = []string{
	"run_id", "algo", "position", "package", "category", "x", "y",
	"leg", "arrival", "breakage", "lateness",
}

func WriteCSV(path string, records []Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(recordHeader); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Algo,
			itoa(r.Packages),
			itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.ScoreBest),
			ftoa(r.ScoreMean),
			ftoa(r.ScoreStd),

			ftoa(r.EvaluationsMean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteXLSX пишет книгу с листом сводки и листом маршрутов лучших запусков.
func WriteXLSX(path string, records []Record) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()

	const summary, routes = "records", "routes"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return err
	}
	if _, err := f.NewSheet(routes); err != nil {
		return err
	}

	if err := writeRow(f, summary, 1, toAny(recordHeader)); err != nil {
		return err
	}
	for i, r := range records {
		if err := writeRow(f, summary, i+2, recordRow(r)); err != nil {
			return err
		}
	}

	if err := writeRow(f, routes, 1, toAny(routeHeader)); err != nil {
		return err
	}
	row := 2
	for _, r := range records {
		if r.Stream == nil || r.Best.Solution == nil {
			continue
		}
		eval, err := delivery.NewEvaluator(r.Stream)
		if err != nil {
			return err
		}
		stops, _, err := eval.Route(r.Best.Solution)
		if err != nil {
			return fmt.Errorf("%s: %w", r.Algo, err)
		}
		for _, st := range stops {
			pkg := st.Package
			vals := []any{
				r.RunID, r.Algo, st.Position, pkg.ID, string(pkg.Category), pkg.X, pkg.Y,
				st.Leg, st.Arrival, st.Breakage, st.Lateness,
			}
			if err := writeRow(f, routes, row, vals); err != nil {
				return err
			}
			row++
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, vals []any) error {
	for col, v := range vals {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// WriteTraceCSV пишет ряд (итерация, лучшая оценка, текущая оценка) одного запуска.
func WriteTraceCSV(path, algo string, trace []opt.Sample) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"algo", "iteration", "best", "current"}); err != nil {
		return err
	}
	for _, s := range trace {
		if err := w.Write([]string{algo, itoa(s.Iteration), ftoa(s.Best), ftoa(s.Current)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// RouteTable печатает маршрут решения построчно и итоговую стоимость.
func RouteTable(out io.Writer, stream *delivery.Stream, sol delivery.Solution) error {
	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return err
	}
	stops, cost, err := eval.Route(sol)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tpackage\tcategory\tx\ty\tleg\tarrival\tbreakage\tlateness\t")
	for _, st := range stops {
		pkg := st.Package
		fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.4f\t%.2f\t\n",
			st.Position, pkg.ID, pkg.Category, pkg.X, pkg.Y,
			st.Leg, st.Arrival, st.Breakage, st.Lateness,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "distance=%.2f breakage=%.2f lateness=%.2f total=%.2f fitness=%.2f\n",
		cost.Distance, cost.Breakage, cost.Lateness, cost.Total, cost.Fitness())
	return err
}
