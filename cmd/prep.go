package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/insureco/advisor-cli/internal/content"
	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/workbook"
)

var prepClientID int64

// prepBundle is everything an advisor needs printed before a meeting.
type prepBundle struct {
	Meeting       content.MeetingPrep     `yaml:"meeting"`
	Proposal      *content.TieredProposal `yaml:"proposal,omitempty"`
	TalkingPoints []content.TalkingPoint  `yaml:"talking_points"`
	Objections    []content.Objection     `yaml:"objections"`
	Email         string                  `yaml:"email"`
}

var prepCmd = &cobra.Command{
	Use:   "prep <workbook.xlsx>",
	Short: "Generate meeting prep for a single client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := workbook.Load(args[0])
		if err != nil {
			return err
		}

		pipe, err := newPipeline()
		if err != nil {
			return err
		}
		res, err := pipe.Compute(tables, time.Now())
		if err != nil {
			return err
		}

		bundle, err := buildPrepBundle(res, tables, prepClientID)
		if err != nil {
			return err
		}

		payload, err := yaml.Marshal(bundle)
		if err != nil {
			return eris.Wrap(err, "prep: marshal output")
		}
		_, err = os.Stdout.Write(payload)
		return err
	},
}

func init() {
	prepCmd.Flags().Int64Var(&prepClientID, "client", 0, "client ID to prepare for")
	prepCmd.MarkFlagRequired("client")
	rootCmd.AddCommand(prepCmd)
}

func buildPrepBundle(res *model.AnalysisResult, tables *model.Tables, clientID int64) (*prepBundle, error) {
	var client *model.Client
	for i := range tables.Clients {
		if tables.Clients[i].ClientID == clientID {
			client = &tables.Clients[i]
			break
		}
	}
	if client == nil {
		return nil, eris.Errorf("prep: client %d not found in workbook", clientID)
	}

	var clientOpps []model.Opportunity
	for _, op := range res.Opportunities {
		if op.ClientID == clientID {
			clientOpps = append(clientOpps, op)
		}
	}
	if len(clientOpps) == 0 {
		return nil, eris.Errorf("prep: no ranked opportunities for client %d", clientID)
	}
	top := clientOpps[0]

	meeting := content.BuildMeetingPrep(*client, res.Personas[clientID], clientOpps, res.LifeEvents[clientID])

	return &prepBundle{
		Meeting:       meeting,
		Proposal:      content.BuildTieredProposal(top, tables.Products),
		TalkingPoints: content.BuildTalkingPoints(top),
		Objections:    content.PredictObjections(top, *client),
		Email:         content.BuildEmail(top, content.EmailInitial),
	}, nil
}
