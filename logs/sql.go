package logs

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  id varchar primary key,
  time timestamp,
  player1 varchar,
  player2 varchar,
  result varchar,
  reason varchar,
  winner varchar,
  moves integer,
  captured1 integer,
  captured2 integer,
  record text
)`

const createRatingTable = `
CREATE TABLE IF NOT EXISTS ratings (
  player varchar primary key,
  rating integer not null,
  games integer not null
)`

const playerGamesView = ` player_games (
  id, player, opponent, seat, win, result, moves
) AS
SELECT id, player2, player1, 'player2',
       CASE winner WHEN player2 THEN 'win' WHEN '' THEN 'tie' ELSE 'lose' END,
       result, moves
 FROM games
UNION
SELECT id, player1, player2, 'player1',
       CASE winner WHEN player1 THEN 'win' WHEN '' THEN 'tie' ELSE 'lose' END,
       result, moves
 FROM games
`

// sqlite and postgres disagree on conditional view creation.
var createPlayerView = map[string]string{
	"sqlite3": "CREATE VIEW IF NOT EXISTS" + playerGamesView,
	"pgx":     "CREATE OR REPLACE VIEW" + playerGamesView,
}

const insertGame = `
INSERT INTO games (id, time, player1, player2, result, reason, winner, moves, captured1, captured2, record)
VALUES (:id, :time, :player1, :player2, :result, :reason, :winner, :moves, :captured1, :captured2, :record)
`

const selectRecentGames = `
SELECT id, time, player1, player2, result, reason, winner, moves, captured1, captured2, record
FROM games
ORDER BY time DESC, id DESC
LIMIT ?
`

const selectPlayerGames = `
SELECT id, player, opponent, seat, win, result, moves
FROM player_games
WHERE player = ?
ORDER BY id
`

const selectRating = `
SELECT player, rating, games FROM ratings WHERE player = ?
`

const upsertRating = `
INSERT INTO ratings (player, rating, games)
VALUES (:player, :rating, :games)
ON CONFLICT (player) DO UPDATE SET rating = excluded.rating, games = excluded.games
`

const selectLeaderboard = `
SELECT player, rating, games
FROM ratings
ORDER BY rating DESC, player
LIMIT ?
`
