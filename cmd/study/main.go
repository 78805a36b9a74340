/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command study opens the configured database, migrates and seeds it, then
// runs a catalogue of typed queries over the member/team data and logs the
// results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/tomoncle/study"
	"github.com/tomoncle/study/config"
	"github.com/tomoncle/study/database"
	"github.com/tomoncle/study/entity"
	"github.com/tomoncle/study/query"
	"github.com/tomoncle/study/repository"
	"github.com/tomoncle/study/types"
	"github.com/tomoncle/study/utils"
)

var log = utils.NewLogger("STUDY")

func main() {
	configPath := flag.String("config", "", "path to application.yaml (default: ./configs/application.yaml)")
	flag.Parse()

	// os.Exit skips deferred calls, so it only runs once start has cleaned up
	if err := start(*configPath); err != nil {
		log.WithError(err).Error("Query catalogue failed")
		os.Exit(1)
	}
	log.Info("Query catalogue completed")
}

func start(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.ApplyLogging()
	database.InitLogger(database.NewDefaultLogger(utils.NewLogger("DATABASE")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := study.OpenFrom(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("Failed to close database")
		}
	}()

	return run(ctx, app)
}

func run(ctx context.Context, app *study.App) error {
	members, err := app.Members.FindByName(ctx, "member1")
	if err != nil {
		return err
	}
	log.WithField("count", len(members)).Info("FindByName(member1)")

	age := 20
	members, err = app.Members.FindUser(ctx, nil, &age)
	if err != nil {
		return err
	}
	for _, m := range members {
		log.WithField("member", m.String()).Info("FindUser(age=20)")
	}

	team := "teamB"
	rows, err := app.Members.Search(ctx, repository.MemberSearchCondition{TeamName: &team})
	if err != nil {
		return err
	}
	for _, r := range rows {
		log.WithFields(logrus.Fields{"member_id": r.MemberID, "user_name": r.UserName, "age": r.Age}).Info("Search(team=teamB)")
	}

	stats, err := app.Members.TeamAgeStats(ctx)
	if err != nil {
		return err
	}
	for _, s := range stats {
		log.WithFields(logrus.Fields{
			"team":  s.TeamName,
			"count": s.MemberCount,
			"avg":   s.AvgAge,
			"max":   s.MaxAge,
			"min":   s.MinAge,
		}).Info("TeamAgeStats")
	}

	m, ms := entity.QMember, entity.NewQMember("ms")
	oldest, err := query.SelectFrom[entity.Member](app.Queries).
		Where(m.Age.EqSub(query.Sub(app.Queries, ms, ms.Age.Max()))).
		Fetch(ctx)
	if err != nil {
		return err
	}
	for _, x := range oldest {
		log.WithField("member", x.String()).Info("Oldest member")
	}

	page, err := query.SelectFrom[entity.Member](app.Queries).
		Page(ctx, types.NewPageRequestWithOrders(2, 3, query.Orders(m.Age.Desc(), m.ID.Asc())))
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"page":  page.Page,
		"total": page.Total,
		"pages": page.TotalPages(),
		"items": len(page.Items),
	}).Info("Members by age, page 2")

	return nil
}
