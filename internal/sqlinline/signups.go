package sqlinline

// Both signup tables carry a unique constraint on email; the insert
// surfaces SQLSTATE 23505 on a repeat submission.

const QInsertWaitlistSignup = `--sql 1a6e8f4d-3c27-49b5-a80e-7d5f91c2b364
insert into waitlist_signups(id, email, created_at)
values (gen_random_uuid(), lower($1::text), now())
returning id;
`

const QInsertNewsletterSignup = `--sql 9e3b7a52-6f18-4dc4-b2a7-0c84e6d1f595
insert into newsletter_signups(id, email, created_at)
values (gen_random_uuid(), lower($1::text), now())
returning id;
`
