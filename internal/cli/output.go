package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case TownCreated:
		o.printTownCreated(v)
	case TownList:
		o.printTownList(v)
	case PollCreated:
		o.printPollCreated(v)
	case []PollInfo:
		o.printPollList(v)
	case PollResults:
		o.printPollResults(v)
	case StarsResult:
		o.printStarsResult(v)
	case ImageResult:
		o.printImageResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// TownCreated response type (matches API)
type TownCreated struct {
	TownID             string `json:"townID"`
	TownUpdatePassword string `json:"townUpdatePassword"`
}

// TownSummary response type
type TownSummary struct {
	TownID           string `json:"townID"`
	FriendlyName     string `json:"friendlyName"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	MaximumOccupancy int    `json:"maximumOccupancy"`
}

// TownList response type
type TownList struct {
	Towns []TownSummary `json:"towns"`
}

// PollCreated response type
type PollCreated struct {
	PollID string `json:"pollId"`
}

// PollVoter response type
type PollVoter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PollInfo response type
type PollInfo struct {
	PollID      string   `json:"pollId"`
	CreatorID   string   `json:"creatorId"`
	CreatorName string   `json:"creatorName"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Voted       bool     `json:"voted"`
	TotalVoters int      `json:"totalVoters"`
}

// PollResults response type. Responses is either an array of counts or
// an array of voter-identity arrays, depending on the poll's settings.
type PollResults struct {
	PollID    string          `json:"pollId"`
	Creator   PollVoter       `json:"creator"`
	Question  string          `json:"question"`
	Options   []string        `json:"options"`
	Responses json.RawMessage `json:"responses"`
	Settings  PollSettings    `json:"settings"`
	UserVotes []int           `json:"userVotes"`
}

// PollSettings response type
type PollSettings struct {
	Anonymize   bool `json:"anonymize"`
	MultiSelect bool `json:"multiSelect"`
}

// StarsResult response type
type StarsResult struct {
	Stars int `json:"stars"`
}

// ImageResult response type
type ImageResult struct {
	ImageContents string `json:"imageContents"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printTownCreated(t TownCreated) {
	fmt.Printf("Town: %s\n", t.TownID)
	fmt.Printf("Update Password: %s\n", t.TownUpdatePassword)
}

func (o *Output) printTownList(l TownList) {
	fmt.Printf("Towns (%d):\n", len(l.Towns))
	for _, t := range l.Towns {
		fmt.Printf("  - %s (%s) - %d/%d players\n",
			t.FriendlyName, t.TownID, t.CurrentOccupancy, t.MaximumOccupancy)
	}
}

func (o *Output) printPollCreated(p PollCreated) {
	fmt.Printf("Poll: %s\n", p.PollID)
}

func (o *Output) printPollList(polls []PollInfo) {
	fmt.Printf("Polls (%d):\n", len(polls))
	for _, p := range polls {
		votedStr := ""
		if p.Voted {
			votedStr = " [voted]"
		}
		fmt.Printf("  - %s: %q by %s - %d voters%s\n",
			p.PollID, p.Question, p.CreatorName, p.TotalVoters, votedStr)
	}
}

func (o *Output) printPollResults(p PollResults) {
	fmt.Printf("Poll: %s\n", p.PollID)
	fmt.Printf("Question: %s\n", p.Question)
	fmt.Printf("Created by: %s\n", p.Creator.Name)
	if len(p.UserVotes) > 0 {
		var picked []string
		for _, i := range p.UserVotes {
			if i < len(p.Options) {
				picked = append(picked, p.Options[i])
			}
		}
		fmt.Printf("Your votes: %s\n", strings.Join(picked, ", "))
	}

	if p.Settings.Anonymize {
		var counts []int
		if err := json.Unmarshal(p.Responses, &counts); err != nil {
			o.printJSON(p.Responses)
			return
		}
		fmt.Println("Results:")
		for i, option := range p.Options {
			votes := 0
			if i < len(counts) {
				votes = counts[i]
			}
			fmt.Printf("  %d. %s: %d votes\n", i, option, votes)
		}
		return
	}

	var voters [][]PollVoter
	if err := json.Unmarshal(p.Responses, &voters); err != nil {
		o.printJSON(p.Responses)
		return
	}
	fmt.Println("Results:")
	for i, option := range p.Options {
		var names []string
		if i < len(voters) {
			for _, v := range voters[i] {
				names = append(names, v.Name)
			}
		}
		fmt.Printf("  %d. %s: %d votes", i, option, len(names))
		if len(names) > 0 {
			fmt.Printf(" (%s)", strings.Join(names, ", "))
		}
		fmt.Println()
	}
}

func (o *Output) printStarsResult(s StarsResult) {
	fmt.Printf("Stars: %d\n", s.Stars)
}

func (o *Output) printImageResult(i ImageResult) {
	fmt.Println(i.ImageContents)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
