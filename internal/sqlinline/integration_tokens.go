package sqlinline

// QEnsureIntegrationTokens creates the key table for deployments without migrations.
const QEnsureIntegrationTokens = `--sql 3c1f4b9e-52d7-4e0a-9d41-6a0f2b7c8e15
create table if not exists integration_tokens (
    id uuid primary key default gen_random_uuid(),
    provider text not null unique,
    token text not null,
    properties jsonb not null default '{}'::jsonb,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`

const QSelectIntegrationToken = `--sql b27e61c4-0d8a-4f3b-a5e2-94c7d1f0a863
select token
from integration_tokens
where provider = $1::text
order by updated_at desc
limit 1;
`

const QUpsertIntegrationToken = `--sql e4a09d37-6b15-4c28-8f7e-1d3b5a9c2f40
insert into integration_tokens (provider, token, properties, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`

const QListIntegrationProviders = `--sql 7f58c2a1-93e4-4b6d-b0c9-25a8e7d4f1b6
select provider, updated_at
from integration_tokens
order by provider;
`
