package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/theraswitchrx/backend/internal/model"
	"github.com/theraswitchrx/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startToken(cctx *cli.Context) error {
	s.loadAuth()

	cfg := xcontext.Configs(s.ctx)
	token, err := xcontext.TokenEngine(s.ctx).Generate(
		cfg.Auth.AccessToken.Expiration,
		model.AccessToken{
			ID:   uuid.NewString(),
			Name: cctx.String("name"),
			Role: model.RoleAdmin,
		},
	)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
