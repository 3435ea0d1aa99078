package console

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/oneee-playground/crackdash/internal/job"
	"github.com/oneee-playground/crackdash/internal/notify"
	"github.com/oneee-playground/crackdash/internal/resource"
	"github.com/oneee-playground/crackdash/internal/tool"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.Style{
		Name:    "CrackdashLight",
		Box:     table.StyleBoxLight,
		Color:   table.ColorOptionsDefault,
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Size:    table.SizeOptionsDefault,
		Title:   table.TitleOptionsDefault,
		Format: table.FormatOptions{
			Footer: text.FormatDefault,
			Header: text.FormatUpper,
			Row:    text.FormatDefault,
		},
	})
	t.SuppressTrailingSpaces()
	return t
}

// RenderBoard prints the active and completed lists in board order.
func RenderBoard(w io.Writer, board *job.Board, resources ResourceSource) {
	renderJobs(w, "Active jobs", board.Active(), resources)
	renderJobs(w, "Completed jobs", board.Completed(), resources)
}

func renderJobs(w io.Writer, title string, jobs []job.Job, resources ResourceSource) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"#", "ID", "Name", "Status", "Owner", "Resource", "Progress", "Cracked", "Started"})

	for idx, j := range jobs {
		t.AppendRow(table.Row{
			idx + 1,
			j.ID,
			j.Name,
			j.Status,
			j.Owner,
			resourceLabel(j.ResourceID, resources),
			fmt.Sprintf("%.1f%%", j.Progress),
			fmt.Sprintf("%d/%d", j.CrackedHashes, j.TotalHashes),
			startedLabel(j.StartTime),
		})
	}

	t.Render()
}

func resourceLabel(id string, resources ResourceSource) string {
	if id == "" || resources == nil {
		return id
	}
	if res, ok := resources.Get(id); ok {
		return fmt.Sprintf("%s (%s)", res.Name, res.Color.Hex())
	}
	return id
}

func startedLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}

func RenderDetail(w io.Writer, snap DetailSnapshot) {
	d := snap.Job

	t := newTable(w, d.Name)
	t.AppendRows([]table.Row{
		{"ID", d.ID},
		{"Status", d.Status},
		{"Owner", d.Owner},
		{"Tool", snap.ToolName},
		{"Resource", snap.ResourceName},
		{"Progress", fmt.Sprintf("%.1f%%", d.Progress)},
		{"Cracked", fmt.Sprintf("%d/%d", d.CrackedHashes, d.TotalHashes)},
	})
	if n := len(snap.Series); n > 0 {
		t.AppendRow(table.Row{d.PerformanceTitle, snap.Series[n-1].Value})
	}
	t.Render()

	if len(d.OutputTitles) == 0 {
		return
	}

	out := newTable(w, "Output")
	header := table.Row{}
	for _, title := range d.OutputTitles {
		header = append(header, title)
	}
	out.AppendHeader(header)

	keys := make([]string, 0, len(d.OutputData))
	for k := range d.OutputData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		row := table.Row{}
		for _, cell := range strings.SplitN(d.OutputData[k], ":", len(d.OutputTitles)) {
			row = append(row, cell)
		}
		out.AppendRow(row)
	}
	out.Render()
}

func RenderResources(w io.Writer, resources []resource.Resource) {
	t := newTable(w, "Resources")
	t.AppendHeader(table.Row{"ID", "Name", "Address", "Status", "Color", "Tools"})

	for _, r := range resources {
		names := make([]string, 0, len(r.Tools))
		for _, ref := range r.Tools {
			names = append(names, ref.Name+" "+ref.Version)
		}
		sort.Strings(names)

		t.AppendRow(table.Row{r.ID, r.Name, r.Address, r.Status, r.Color.Hex(), strings.Join(names, ", ")})
	}

	t.Render()
}

func RenderTools(w io.Writer, tools []tool.Tool) {
	t := newTable(w, "Tools")
	t.AppendHeader(table.Row{"ID", "Name", "Version"})
	for _, tl := range tools {
		t.AppendRow(table.Row{tl.ID, tl.Name, tl.Version})
	}
	t.Render()
}

func RenderNotifications(w io.Writer, notes []notify.Notification) {
	for _, n := range notes {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
	}
}

func RenderManagers(w io.Writer, managers []resource.Manager) {
	t := newTable(w, "Resource Managers")
	t.AppendHeader(table.Row{"ID", "Name", "Description"})
	for _, m := range managers {
		t.AppendRow(table.Row{m.ID, m.Name, m.Description})
	}
	t.Render()
}
