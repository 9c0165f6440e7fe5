package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/quillcast/reel/internal/model"
	"github.com/quillcast/reel/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

const timeLayout = "2006-01-02 15:04:05"

func printProjectTable(p model.Project) {
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Title:       %s\n", p.Title)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(p.Status.String()))
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if len(p.VoiceIDs) > 0 {
		fmt.Printf("Voices:      %s\n", strings.Join(p.VoiceIDs, ", "))
	}
	fmt.Printf("Created At:  %s\n", p.CreatedAt.Format(timeLayout))
	fmt.Printf("Updated At:  %s\n", p.UpdatedAt.Format(timeLayout))
	if len(p.Episodes) > 0 {
		fmt.Println("Episodes:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, ep := range p.Episodes {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", ep.ID, ui.RenderStatus(string(ep.Status)), ep.Title)
		}
		w.Flush()
	}
}

func printProjectList(projects []model.Project) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tEPISODES\tVOICES\tTITLE")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
			p.ID, ui.RenderStatus(p.Status.String()), len(p.Episodes), len(p.VoiceIDs), truncate(p.Title, 50))
	}
	w.Flush()
	fmt.Printf("\n%d projects\n", len(projects))
}

func printVoiceList(voices []model.Voice) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTYLE\tPROJECTS")
	for _, v := range voices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
			v.ID, v.Name, strings.Join(v.StyleTags, ","), len(v.ProjectIDs))
	}
	w.Flush()
	fmt.Printf("\n%d voices\n", len(voices))
}

func printMediaList(items []model.MediaItem) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSOURCE\tSIZE\tNAME")
	for _, m := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID, m.Type, m.Source, formatSize(m.SizeBytes), truncate(m.Name, 40))
	}
	w.Flush()
	fmt.Printf("\n%d media items\n", len(items))
}

func formatSize(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n < 1<<10:
		return fmt.Sprintf("%dB", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1fKB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
	}
}

func printTicketTable(t *model.Ticket) {
	fmt.Printf("ID:         %s\n", t.ID)
	fmt.Printf("Subject:    %s\n", t.Subject)
	fmt.Printf("Status:     %s\n", ui.RenderStatus(t.Status.String()))
	if t.Requester != "" {
		fmt.Printf("Requester:  %s\n", t.Requester)
	}
	if t.Body != "" {
		fmt.Printf("Body:       %s\n", t.Body)
	}
	fmt.Printf("Created At: %s\n", t.CreatedAt.Format(timeLayout))
	if t.ClosedAt != nil {
		fmt.Printf("Closed At:  %s\n", t.ClosedAt.Format(timeLayout))
	}
}

func printTicketList(tickets []*model.Ticket) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tREQUESTER\tSUBJECT")
	for _, t := range tickets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			t.ID, ui.RenderStatus(t.Status.String()), t.Requester, truncate(t.Subject, 50))
	}
	w.Flush()
	fmt.Printf("\n%d tickets\n", len(tickets))
}
