package sqlinline

// The donations table is an append-only ledger: only insert and
// aggregate-read statements exist for it.

const QInsertDonation = `--sql 4f2c9a1e-8d6b-4e3a-9c71-5b0f2d8e6a43
insert into donations(id, amount, message, created_at)
values (gen_random_uuid(), $1::numeric, $2::text, now())
returning id, created_at;
`

const QDonationTotals = `--sql b7d1e5c3-2a94-47f8-8e06-9c3a1f7d5b28
select coalesce(sum(amount), 0)::float8, count(*)
from donations;
`

const QListRecentDonations = `--sql 5d8a3f61-9b2e-4c07-8f54-1e6d7a9c0b32
select id, amount::float8, message, created_at
from donations
order by created_at desc
limit $1::int;
`
